/*
Package rapidfire is the concurrent core of a sound-project editor.

It owns a small hierarchical document (a Project made of Scenes, each holding
SoundInstances) and serializes every read and write to it through a single
actor goroutine. A second goroutine watches the host output volume and reports
when it crosses the "full" threshold. Both feed an event hub that forwards
updates to one presentation subscriber (an SSE client, a terminal, an agent).

# Architecture

The App wires three loops that talk only over bounded channels:

  - Actor: owns the document. Patches are applied in arrival order, written
    through to a ports.ProjectStore and broadcast as full snapshots.
  - Watcher: consumes a ports.VolumeSource and emits a volume_warning event
    only when the reading crosses the threshold.
  - Hub: queues events (producers block when it is full) and delivers them to
    the single attached subscriber. Nothing is replayed to late subscribers.

A failed save is fatal. The actor stops and the App's fatal handler runs;
callers blocked on a reply get domain.ErrActorStopped.

# Usage

	store := rapidfire.NewFileStore("projects/index.json")

	app, err := rapidfire.New(ctx, store, nil)
	if err != nil {
		log.Fatal(err) // wraps domain.ErrFatalStartup
	}
	app.Start(ctx)
	defer app.Close()

	res, err := app.PatchSoundVolume(ctx, domain.PatchSoundVolume{
		SceneID: "stage-1",
		SoundID: "bgm",
		Volume:  80,
	})
	if err != nil {
		log.Fatal(err)
	}
	if !res.Matched {
		log.Println("no such sound")
	}
*/
package rapidfire
