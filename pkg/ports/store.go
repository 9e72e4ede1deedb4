package ports

import (
	"context"

	"github.com/aretw0/rapidfire/pkg/domain"
)

// ProjectStore persists the project document.
// Every save fully overwrites the previous document; there is no partial update.
type ProjectStore interface {
	// Load reads and decodes the stored project.
	// Returns domain.ErrProjectNotFound if nothing is stored and
	// domain.ErrMalformedProject if the stored data cannot be decoded or validated.
	Load(ctx context.Context) (domain.Project, error)

	// Save serializes the full project and overwrites the store.
	Save(ctx context.Context, project domain.Project) error
}
