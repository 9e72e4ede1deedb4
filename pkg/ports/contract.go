package ports

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractProject returns the fixture document used by RunProjectStoreContract.
func ContractProject() domain.Project {
	return domain.Project{
		DisplayName: "Contract Project",
		Scenes: []domain.Scene{
			{
				ID:          "stage-1",
				DisplayName: "Stage 1",
				Sounds: []domain.SoundInstance{
					{ID: "bgm", DisplayName: "Field Theme", Path: "audio/field.ogg", Volume: 70, Looped: true, Variant: domain.VariantBackgroundMusic},
					{ID: "jump", DisplayName: "Jump", Path: "audio/jump.wav", Volume: 40, Variant: domain.VariantSoundEffect},
				},
			},
			{
				ID:          "menu",
				DisplayName: "Menu",
				Sounds:      []domain.SoundInstance{},
			},
		},
	}
}

// RunProjectStoreContract runs a suite of tests to verify that a ProjectStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunProjectStoreContract(t *testing.T, store ProjectStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		project := ContractProject()

		err := store.Save(ctx, project)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, project, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		project := ContractProject()
		project.Scenes[0].Sounds[0].Volume = 12
		project.Scenes = project.Scenes[:1]

		require.NoError(t, store.Save(ctx, project))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, project, loaded)
	})

	t.Run("Round Trip Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, ContractProject()))

		first, err := store.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, first))
		second, err := store.Load(ctx)
		require.NoError(t, err)

		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b))
		assert.Equal(t, first, second)
	})
}
