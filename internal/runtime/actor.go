package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/observability"
	"github.com/aretw0/rapidfire/pkg/ports"
)

// DefaultInboxCapacity is the number of requests queued before callers block.
const DefaultInboxCapacity = 32

// Request kinds, also used as metric labels.
const (
	KindGetProject       = "get_project"
	KindPatchSoundVolume = "patch_sound_volume"
	KindPatchSoundLooped = "patch_sound_looped"
)

type request interface {
	kind() string
}

type getProjectRequest struct {
	reply chan domain.Project
}

type patchReply struct {
	result domain.PatchResult
	err    error
}

type patchVolumeRequest struct {
	patch domain.PatchSoundVolume
	reply chan patchReply
}

type patchLoopedRequest struct {
	patch domain.PatchSoundLooped
	reply chan patchReply
}

func (getProjectRequest) kind() string  { return KindGetProject }
func (patchVolumeRequest) kind() string { return KindPatchSoundVolume }
func (patchLoopedRequest) kind() string { return KindPatchSoundLooped }

// Actor owns the project document and serves requests against it one at a time,
// in arrival order. Every patch is written through to the store and broadcast
// as a full snapshot, whether or not its ids matched.
//
// A failed save is fatal: the actor stops, pending and later callers receive
// domain.ErrActorStopped, and the fatal handler (if any) is invoked.
type Actor struct {
	project domain.Project // owned by the run goroutine once started
	store   ports.ProjectStore
	events  Publisher

	inbox  chan request
	done   chan struct{}
	cancel context.CancelFunc
	err    error // written before done is closed

	onFatal func(error)
	logger  *slog.Logger
	metrics *observability.Metrics
}

// ActorOption configures the Actor.
type ActorOption func(*Actor)

// WithInboxCapacity sets the request queue capacity.
func WithInboxCapacity(n int) ActorOption {
	return func(a *Actor) {
		if n > 0 {
			a.inbox = make(chan request, n)
		}
	}
}

// WithActorLogger sets the actor logger.
func WithActorLogger(logger *slog.Logger) ActorOption {
	return func(a *Actor) {
		a.logger = logger
	}
}

// WithActorMetrics reports requests and saves.
func WithActorMetrics(m *observability.Metrics) ActorOption {
	return func(a *Actor) {
		a.metrics = m
	}
}

// WithFatalHandler registers fn to run after the actor stops on a persistence failure.
func WithFatalHandler(fn func(error)) ActorOption {
	return func(a *Actor) {
		a.onFatal = fn
	}
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, domain.Event) error { return nil }

// NewActor creates an actor owning a private copy of project.
// A nil events publisher discards update events.
func NewActor(project domain.Project, store ports.ProjectStore, events Publisher, opts ...ActorOption) *Actor {
	if events == nil {
		events = discardPublisher{}
	}
	a := &Actor{
		project: project.Clone(),
		store:   store,
		events:  events,
		inbox:   make(chan request, DefaultInboxCapacity),
		done:    make(chan struct{}),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "project-actor")
	return a
}

// Start launches the message loop. It must be called once.
func (a *Actor) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	go a.run(ctx)
}

// Stop terminates the loop after the request in progress. Queued requests are
// not served; their callers receive domain.ErrActorStopped.
func (a *Actor) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
}

// Done is closed once the loop has exited.
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

// Err returns the fatal error that stopped the actor, if any.
// It is only meaningful after Done is closed.
func (a *Actor) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// GetProject returns a deep copy of the current document.
func (a *Actor) GetProject(ctx context.Context) (domain.Project, error) {
	req := getProjectRequest{reply: make(chan domain.Project, 1)}
	return call[domain.Project](ctx, a, req, req.reply)
}

// PatchSoundVolume sets the volume of one sound.
func (a *Actor) PatchSoundVolume(ctx context.Context, patch domain.PatchSoundVolume) (domain.PatchResult, error) {
	if !domain.ValidVolume(patch.Volume) {
		return domain.PatchResult{}, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrVolumeOutOfRange, patch.Volume, domain.MinVolume, domain.MaxVolume)
	}
	req := patchVolumeRequest{patch: patch, reply: make(chan patchReply, 1)}
	reply, err := call[patchReply](ctx, a, req, req.reply)
	if err != nil {
		return domain.PatchResult{}, err
	}
	return reply.result, reply.err
}

// PatchSoundLooped sets the loop flag of one sound.
func (a *Actor) PatchSoundLooped(ctx context.Context, patch domain.PatchSoundLooped) (domain.PatchResult, error) {
	req := patchLoopedRequest{patch: patch, reply: make(chan patchReply, 1)}
	reply, err := call[patchReply](ctx, a, req, req.reply)
	if err != nil {
		return domain.PatchResult{}, err
	}
	return reply.result, reply.err
}

// call enqueues req and waits on its one-shot reply channel.
// If ctx ends after the request was queued, the request may still be applied.
func call[T any](ctx context.Context, a *Actor, req request, reply <-chan T) (T, error) {
	var zero T

	select {
	case <-a.done:
		return zero, a.stoppedErr()
	default:
	}

	select {
	case a.inbox <- req:
	case <-a.done:
		return zero, a.stoppedErr()
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case v := <-reply:
		return v, nil
	case <-a.done:
		// The reply may have been sent just before the loop exited.
		select {
		case v := <-reply:
			return v, nil
		default:
		}
		return zero, a.stoppedErr()
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (a *Actor) stoppedErr() error {
	if a.err != nil {
		return fmt.Errorf("%w: %w", domain.ErrActorStopped, a.err)
	}
	return domain.ErrActorStopped
}

func (a *Actor) run(ctx context.Context) {
	err := a.loop(ctx)
	a.err = err
	close(a.done)

	if err != nil {
		a.logger.Error("Project actor stopped on fatal error", "err", err)
		if a.onFatal != nil {
			a.onFatal(err)
		}
		return
	}
	a.logger.Debug("Project actor stopped")
}

func (a *Actor) loop(ctx context.Context) error {
	a.logger.Debug("Project actor ready", "scenes", len(a.project.Scenes))
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-a.inbox:
			a.metrics.ObserveRequest(req.kind())
			if err := a.handle(ctx, req); err != nil {
				return err
			}
		}
	}
}

func (a *Actor) handle(ctx context.Context, req request) error {
	switch r := req.(type) {
	case getProjectRequest:
		r.reply <- a.project.Clone()
		return nil

	case patchVolumeRequest:
		sound, ok := a.project.FindSound(r.patch.SceneID, r.patch.SoundID)
		if ok {
			sound.Volume = r.patch.Volume
		}
		return a.finishPatch(ctx, r.kind(), r.patch.SceneID, r.patch.SoundID, ok, r.reply)

	case patchLoopedRequest:
		sound, ok := a.project.FindSound(r.patch.SceneID, r.patch.SoundID)
		if ok {
			sound.Looped = r.patch.Looped
		}
		return a.finishPatch(ctx, r.kind(), r.patch.SceneID, r.patch.SoundID, ok, r.reply)
	}

	a.logger.Warn("Unknown request ignored", "type", fmt.Sprintf("%T", req))
	return nil
}

func (a *Actor) finishPatch(ctx context.Context, kind, sceneID, soundID string, matched bool, reply chan<- patchReply) error {
	if !matched {
		a.metrics.ObserveUnmatched()
		a.logger.Debug("Patch target not found", "kind", kind, "scene_id", sceneID, "sound_id", soundID)
	}

	err := a.commit(ctx)
	reply <- patchReply{result: domain.PatchResult{Matched: matched}, err: err}
	return err
}

// commit writes the whole document through to the store, then broadcasts it.
func (a *Actor) commit(ctx context.Context) error {
	snapshot := a.project.Clone()

	// A shutdown must not interrupt a write in progress.
	err := a.store.Save(context.WithoutCancel(ctx), snapshot)
	a.metrics.ObserveSave(err)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if err := a.events.Publish(ctx, domain.Event{Type: domain.EventProjectUpdated, Project: &snapshot}); err != nil {
		a.logger.Warn("Project update not broadcast", "err", err)
	}
	return nil
}
