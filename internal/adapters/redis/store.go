package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/rapidfire/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis key holding the project document.
const DefaultKey = "rapidfire:project"

// Store implements ports.ProjectStore using a single Redis key.
type Store struct {
	client *backend.Client
	key    string
}

type Option func(*Store)

// WithKey sets the key the project is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    DefaultKey,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Save overwrites the project document. No expiration is set.
func (s *Store) Save(ctx context.Context, project domain.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves and validates the project document.
func (s *Store) Load(ctx context.Context) (domain.Project, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Project{}, fmt.Errorf("%w: redis key %s", domain.ErrProjectNotFound, s.key)
		}
		return domain.Project{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var project domain.Project
	if err := json.Unmarshal(val, &project); err != nil {
		return domain.Project{}, fmt.Errorf("%w: redis key %s: %w", domain.ErrMalformedProject, s.key, err)
	}
	if err := project.Validate(); err != nil {
		return domain.Project{}, fmt.Errorf("%w: redis key %s: %w", domain.ErrMalformedProject, s.key, err)
	}

	return project, nil
}

// Ping checks connectivity, used at startup to fail fast on a bad address.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
