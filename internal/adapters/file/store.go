package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/rapidfire/pkg/domain"
)

// DefaultPath is where the project lives unless configured otherwise.
var DefaultPath = filepath.Join("projects", "index.json")

// Store implements ports.ProjectStore using a single JSON file.
type Store struct {
	Path string
}

// New creates a new Store for the given file path.
// If path is empty, it defaults to DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Save persists the project to the JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, project domain.Project) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure project directory: %w", err)
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// No-op once the rename has happened.
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename replaces the destination on every platform (MoveFileEx on Windows),
	// so readers always see either the old or the new document.
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to project file: %w", err)
	}

	return nil
}

// Load reads, decodes and validates the project file.
func (s *Store) Load(ctx context.Context) (domain.Project, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, s.Path)
		}
		return domain.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %s: %w", domain.ErrMalformedProject, s.Path, err)
	}
	if err := project.Validate(); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %s: %w", domain.ErrMalformedProject, s.Path, err)
	}

	return project, nil
}
