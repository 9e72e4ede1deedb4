package ports

import "context"

// VolumeSource supplies host output volume readings in [0.0, 1.0].
type VolumeSource interface {
	// Subscribe opens a stream of readings. The channel is closed when the source
	// stops producing (device gone, helper process exited) or ctx is done.
	// Returns domain.ErrSourceUnavailable if the stream cannot be opened.
	Subscribe(ctx context.Context) (<-chan float64, error)

	// Level returns a point reading.
	// Returns domain.ErrSourceUnavailable (possibly wrapped) when no reading can be produced.
	Level(ctx context.Context) (float64, error)
}
