package rapidfire_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rapidfire"
	"github.com/aretw0/rapidfire/pkg/adapters/memory"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func newApp(t *testing.T, store ports.ProjectStore, source ports.VolumeSource, opts ...rapidfire.Option) *rapidfire.App {
	t.Helper()
	app, err := rapidfire.New(context.Background(), store, source, opts...)
	require.NoError(t, err)
	app.Start(context.Background())
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func next(t *testing.T, events <-chan domain.Event) domain.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for event")
	}
	return domain.Event{}
}

func TestNew_FatalStartup(t *testing.T) {
	ctx := context.Background()

	t.Run("missing project", func(t *testing.T) {
		_, err := rapidfire.New(ctx, memory.NewStore(), nil)
		assert.ErrorIs(t, err, domain.ErrFatalStartup)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		assert.True(t, rapidfire.IsFatal(err))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"display_name": "x", "scenes": [`), 0o644))

		_, err := rapidfire.New(ctx, rapidfire.NewFileStore(path), nil)
		assert.ErrorIs(t, err, domain.ErrFatalStartup)
		assert.ErrorIs(t, err, domain.ErrMalformedProject)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := rapidfire.New(ctx, nil, nil)
		assert.ErrorIs(t, err, domain.ErrFatalStartup)
	})
}

func TestApp_PatchPersistsAndBroadcasts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects", "index.json")
	store := rapidfire.NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), ports.ContractProject()))

	app := newApp(t, store, nil)
	ctx := context.Background()

	events, err := app.Subscribe(ctx)
	require.NoError(t, err)

	res, err := app.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: 12})
	require.NoError(t, err)
	assert.True(t, res.Matched)

	ev := next(t, events)
	require.Equal(t, domain.EventProjectUpdated, ev.Type)
	assert.Equal(t, 12, ev.Project.Scenes[0].Sounds[0].Volume)

	// A fresh load sees the write.
	reloaded, err := rapidfire.NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, *ev.Project, reloaded)

	res, err = app.PatchSoundLooped(ctx, domain.PatchSoundLooped{SceneID: "ghost", SoundID: "bgm", Looped: true})
	require.NoError(t, err)
	assert.False(t, res.Matched)

	ev = next(t, events)
	require.Equal(t, domain.EventProjectUpdated, ev.Type)
	assert.Equal(t, reloaded, *ev.Project, "unmatched patch broadcasts an unchanged snapshot")
}

func TestApp_VolumeWarnings(t *testing.T) {
	source := memory.NewSource()
	app := newApp(t, memory.NewStoreWith(ports.ContractProject()), source)
	ctx := context.Background()

	assert.True(t, app.GetVolumeWarning(ctx).IsFull, "no reading yet reports full")

	events, err := app.Subscribe(ctx)
	require.NoError(t, err)

	source.Push(0.2)
	source.Push(1.0)

	ev := next(t, events)
	require.Equal(t, domain.EventVolumeWarning, ev.Type)
	assert.True(t, ev.Warning.IsFull)
	assert.True(t, app.GetVolumeWarning(ctx).IsFull)

	source.Push(0.5)
	ev = next(t, events)
	require.Equal(t, domain.EventVolumeWarning, ev.Type)
	assert.False(t, ev.Warning.IsFull)
	assert.False(t, app.GetVolumeWarning(ctx).IsFull)
}

func TestApp_NoSourceFailsSafe(t *testing.T) {
	app := newApp(t, memory.NewStoreWith(ports.ContractProject()), nil)
	assert.True(t, app.GetVolumeWarning(context.Background()).IsFull)
}

func TestApp_SingleSubscriber(t *testing.T) {
	app := newApp(t, memory.NewStoreWith(ports.ContractProject()), nil)

	_, err := app.Subscribe(context.Background())
	require.NoError(t, err)

	_, err = app.Subscribe(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubscriberAttached)
}

func TestApp_PersistenceFailureStopsApp(t *testing.T) {
	store := memory.NewStoreWith(ports.ContractProject())
	fatal := make(chan error, 1)
	app := newApp(t, store, nil, rapidfire.WithFatalHandler(func(err error) { fatal <- err }))
	ctx := context.Background()

	store.FailSaves(errors.New("read-only filesystem"))

	_, err := app.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: 1})
	require.ErrorIs(t, err, domain.ErrPersistence)

	select {
	case <-app.Done():
	case <-time.After(waitFor):
		t.Fatal("app did not stop")
	}
	select {
	case err := <-fatal:
		assert.True(t, rapidfire.IsFatal(err))
	case <-time.After(waitFor):
		t.Fatal("fatal handler not called")
	}

	assert.ErrorIs(t, app.Err(), domain.ErrPersistence)
	_, err = app.GetProject(ctx)
	assert.ErrorIs(t, err, domain.ErrActorStopped)
}

func TestApp_CloseEndsSubscription(t *testing.T) {
	app, err := rapidfire.New(context.Background(), memory.NewStoreWith(ports.ContractProject()), nil)
	require.NoError(t, err)
	app.Start(context.Background())

	events, err := app.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.Close())

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(waitFor):
		t.Fatal("subscription not closed")
	}

	_, err = app.GetProject(context.Background())
	assert.ErrorIs(t, err, domain.ErrActorStopped)
	assert.NoError(t, app.Err())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(rapidfire.Version))
}
