package main

import (
	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Edit one sound instance",
}

var patchVolumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Set the volume (0-100) of a sound",
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, _ := cmd.Flags().GetString("scene")
		sound, _ := cmd.Flags().GetString("sound")
		volume, _ := cmd.Flags().GetInt("volume")
		return cli.RunPatchVolume(cmd.Context(), globalOptions(cmd),
			domain.PatchSoundVolume{SceneID: scene, SoundID: sound, Volume: volume}, cmd.OutOrStdout())
	},
}

var patchLoopedCmd = &cobra.Command{
	Use:   "looped",
	Short: "Set whether a sound loops",
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, _ := cmd.Flags().GetString("scene")
		sound, _ := cmd.Flags().GetString("sound")
		looped, _ := cmd.Flags().GetBool("looped")
		return cli.RunPatchLooped(cmd.Context(), globalOptions(cmd),
			domain.PatchSoundLooped{SceneID: scene, SoundID: sound, Looped: looped}, cmd.OutOrStdout())
	},
}

func init() {
	for _, c := range []*cobra.Command{patchVolumeCmd, patchLoopedCmd} {
		c.Flags().String("scene", "", "Scene ID")
		c.Flags().String("sound", "", "Sound instance ID")
		_ = c.MarkFlagRequired("scene")
		_ = c.MarkFlagRequired("sound")
		patchCmd.AddCommand(c)
	}
	patchVolumeCmd.Flags().Int("volume", 0, "New volume (0-100)")
	_ = patchVolumeCmd.MarkFlagRequired("volume")
	patchLoopedCmd.Flags().Bool("looped", true, "Loop the sound")

	rootCmd.AddCommand(patchCmd)
}
