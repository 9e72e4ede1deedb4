package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/rapidfire/pkg/domain"
)

// RunPatchVolume applies a volume patch and reports whether it matched.
func RunPatchVolume(ctx context.Context, opts Options, patch domain.PatchSoundVolume, w io.Writer) error {
	return runPatch(ctx, opts, w, func(ctx context.Context, deps *runtimeDeps) (domain.PatchResult, error) {
		return deps.App.PatchSoundVolume(ctx, patch)
	}, fmt.Sprintf("volume of %s/%s set to %d", patch.SceneID, patch.SoundID, patch.Volume))
}

// RunPatchLooped applies a loop flag patch and reports whether it matched.
func RunPatchLooped(ctx context.Context, opts Options, patch domain.PatchSoundLooped, w io.Writer) error {
	return runPatch(ctx, opts, w, func(ctx context.Context, deps *runtimeDeps) (domain.PatchResult, error) {
		return deps.App.PatchSoundLooped(ctx, patch)
	}, fmt.Sprintf("looped of %s/%s set to %t", patch.SceneID, patch.SoundID, patch.Looped))
}

func runPatch(ctx context.Context, opts Options, w io.Writer, apply func(context.Context, *runtimeDeps) (domain.PatchResult, error), done string) error {
	deps, err := startApp(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := apply(ctx, deps)
	if err != nil {
		return err
	}
	if !result.Matched {
		printSystemMessage(w, "No sound matched; project unchanged")
		return nil
	}
	printSystemMessage(w, "%s", done)
	return nil
}
