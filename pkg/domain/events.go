package domain

// EventType names an event on the wire.
type EventType string

const (
	EventVolumeWarning  EventType = "volume_warning"
	EventProjectUpdated EventType = "project"
)

// VolumeWarning reports whether the host output volume is at (or near) maximum.
type VolumeWarning struct {
	IsFull bool `json:"is_full"`
}

// DefaultFullThreshold is the level at or above which the output is considered full.
const DefaultFullThreshold = 0.995

// IsFullLevel applies the threshold to a raw reading.
func IsFullLevel(level, threshold float64) bool {
	return level >= threshold
}

// Event is the tagged union delivered to the presentation layer.
// Exactly one of Warning or Project is set, matching Type.
type Event struct {
	Type    EventType
	Warning *VolumeWarning
	Project *Project
}

// NewVolumeWarningEvent builds a volume_warning event.
func NewVolumeWarningEvent(isFull bool) Event {
	return Event{Type: EventVolumeWarning, Warning: &VolumeWarning{IsFull: isFull}}
}

// NewProjectUpdatedEvent builds a project event carrying its own copy of p.
func NewProjectUpdatedEvent(p Project) Event {
	snapshot := p.Clone()
	return Event{Type: EventProjectUpdated, Project: &snapshot}
}

// Payload returns the value serialized as the event body.
func (e Event) Payload() any {
	switch e.Type {
	case EventVolumeWarning:
		return e.Warning
	case EventProjectUpdated:
		return e.Project
	}
	return nil
}
