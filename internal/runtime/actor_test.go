package runtime_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/rapidfire/internal/runtime"
	"github.com/aretw0/rapidfire/pkg/adapters/memory"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) snapshot() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func startActor(t *testing.T, store ports.ProjectStore, events runtime.Publisher, opts ...runtime.ActorOption) *runtime.Actor {
	t.Helper()
	actor := runtime.NewActor(ports.ContractProject(), store, events, opts...)
	actor.Start(context.Background())
	t.Cleanup(actor.Stop)
	return actor
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestActor_GetProjectReturnsCopy(t *testing.T) {
	actor := startActor(t, memory.NewStore(), nil)
	ctx := context.Background()

	p, err := actor.GetProject(ctx)
	require.NoError(t, err)
	p.Scenes[0].Sounds[0].Volume = 1

	again, err := actor.GetProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.ContractProject(), again)
}

func TestActor_PatchVolumeChangesOnlyTarget(t *testing.T) {
	store := memory.NewStore()
	events := &recorder{}
	actor := startActor(t, store, events)
	ctx := context.Background()

	res, err := actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "jump", Volume: 85})
	require.NoError(t, err)
	assert.True(t, res.Matched)

	want := ports.ContractProject()
	want.Scenes[0].Sounds[1].Volume = 85

	got, err := actor.GetProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, saved)

	published := events.snapshot()
	require.Len(t, published, 1)
	assert.Equal(t, domain.EventProjectUpdated, published[0].Type)
	assert.Equal(t, want, *published[0].Project)
}

func TestActor_PatchLooped(t *testing.T) {
	actor := startActor(t, memory.NewStore(), nil)
	ctx := context.Background()

	res, err := actor.PatchSoundLooped(ctx, domain.PatchSoundLooped{SceneID: "stage-1", SoundID: "bgm", Looped: false})
	require.NoError(t, err)
	assert.True(t, res.Matched)

	got, err := actor.GetProject(ctx)
	require.NoError(t, err)
	assert.False(t, got.Scenes[0].Sounds[0].Looped)
	assert.Equal(t, 70, got.Scenes[0].Sounds[0].Volume)
}

func TestActor_UnknownTargetIsNoOp(t *testing.T) {
	store := memory.NewStore()
	events := &recorder{}
	actor := startActor(t, store, events)
	ctx := context.Background()

	before := mustJSON(t, ports.ContractProject())

	tests := []struct {
		name  string
		patch func() (domain.PatchResult, error)
	}{
		{"unknown scene", func() (domain.PatchResult, error) {
			return actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "nope", SoundID: "bgm", Volume: 10})
		}},
		{"unknown sound", func() (domain.PatchResult, error) {
			return actor.PatchSoundLooped(ctx, domain.PatchSoundLooped{SceneID: "stage-1", SoundID: "nope", Looped: true})
		}},
		{"sound in other scene", func() (domain.PatchResult, error) {
			return actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "menu", SoundID: "bgm", Volume: 10})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.patch()
			require.NoError(t, err)
			assert.False(t, res.Matched)

			got, err := actor.GetProject(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, before, mustJSON(t, got))
		})
	}

	// Unmatched patches still write through and broadcast.
	assert.Equal(t, len(tests), store.Saves())
	assert.Len(t, events.snapshot(), len(tests))
}

func TestActor_RejectsOutOfRangeVolume(t *testing.T) {
	store := memory.NewStore()
	actor := startActor(t, store, nil)

	for _, v := range []int{-1, 101} {
		_, err := actor.PatchSoundVolume(context.Background(), domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: v})
		assert.ErrorIs(t, err, domain.ErrVolumeOutOfRange, "volume %d", v)
	}
	assert.Zero(t, store.Saves())
}

func TestActor_AppliesPatchesInOrder(t *testing.T) {
	events := &recorder{}
	actor := startActor(t, memory.NewStore(), events)
	ctx := context.Background()

	for v := 0; v <= 20; v++ {
		_, err := actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: v})
		require.NoError(t, err)
	}

	got, err := actor.GetProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Scenes[0].Sounds[0].Volume)

	published := events.snapshot()
	require.Len(t, published, 21)
	for i, ev := range published {
		assert.Equal(t, i, ev.Project.Scenes[0].Sounds[0].Volume)
	}
}

func TestActor_ConcurrentPatchesAllApplied(t *testing.T) {
	store := memory.NewStore()
	actor := startActor(t, store, nil, runtime.WithInboxCapacity(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := actor.PatchSoundLooped(ctx, domain.PatchSoundLooped{SceneID: "stage-1", SoundID: "jump", Looped: i%2 == 0})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Saves())
}

func TestActor_StoppedRejectsCalls(t *testing.T) {
	actor := runtime.NewActor(ports.ContractProject(), memory.NewStore(), nil)
	actor.Start(context.Background())
	actor.Stop()

	_, err := actor.GetProject(context.Background())
	assert.ErrorIs(t, err, domain.ErrActorStopped)

	_, err = actor.PatchSoundVolume(context.Background(), domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: 1})
	assert.ErrorIs(t, err, domain.ErrActorStopped)

	assert.NoError(t, actor.Err())
}

func TestActor_SaveFailureIsFatal(t *testing.T) {
	diskFull := errors.New("disk full")
	store := memory.NewStore()
	store.FailSaves(diskFull)
	events := &recorder{}

	fatal := make(chan error, 1)
	actor := startActor(t, store, events, runtime.WithFatalHandler(func(err error) { fatal <- err }))
	ctx := context.Background()

	_, err := actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: 5})
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, diskFull)

	select {
	case <-actor.Done():
	case <-time.After(testTimeout):
		t.Fatal("actor did not stop after persistence failure")
	}

	select {
	case got := <-fatal:
		assert.ErrorIs(t, got, domain.ErrPersistence)
	case <-time.After(testTimeout):
		t.Fatal("fatal handler not called")
	}

	assert.ErrorIs(t, actor.Err(), domain.ErrPersistence)
	assert.Empty(t, events.snapshot(), "nothing is broadcast when the save fails")

	_, err = actor.GetProject(ctx)
	assert.ErrorIs(t, err, domain.ErrActorStopped)
	assert.ErrorIs(t, err, diskFull)
}

// gatedStore blocks every Save until release is closed.
type gatedStore struct {
	*memory.Store
	saving  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *gatedStore) Save(ctx context.Context, p domain.Project) error {
	s.once.Do(func() { close(s.saving) })
	<-s.release
	return s.Store.Save(ctx, p)
}

func TestActor_StopUnblocksQueuedCallers(t *testing.T) {
	store := &gatedStore{Store: memory.NewStore(), saving: make(chan struct{}), release: make(chan struct{})}
	actor := runtime.NewActor(ports.ContractProject(), store, nil)
	actor.Start(context.Background())
	ctx := context.Background()

	patchDone := make(chan error, 1)
	go func() {
		_, err := actor.PatchSoundVolume(ctx, domain.PatchSoundVolume{SceneID: "stage-1", SoundID: "bgm", Volume: 10})
		patchDone <- err
	}()
	<-store.saving

	// Queued behind the save in progress.
	getDone := make(chan error, 1)
	go func() {
		_, err := actor.GetProject(ctx)
		getDone <- err
	}()
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		actor.Stop()
		close(stopped)
	}()
	close(store.release)

	select {
	case err := <-getDone:
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrActorStopped)
		}
	case <-time.After(testTimeout):
		t.Fatal("queued GetProject still blocked after Stop")
	}

	select {
	case err := <-patchDone:
		assert.NoError(t, err, "the request in progress completes")
	case <-time.After(testTimeout):
		t.Fatal("patch in progress never returned")
	}
	<-stopped

	_, err := actor.GetProject(ctx)
	assert.ErrorIs(t, err, domain.ErrActorStopped)
}
