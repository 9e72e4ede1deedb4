package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/rapidfire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "rapidfire version "+strings.TrimSpace(rapidfire.Version)+"\n", out.String())
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "mcp", "show", "patch", "watch", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	cmd, _, err := rootCmd.Find([]string{"patch", "volume"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("scene"))
	assert.NotNil(t, cmd.Flags().Lookup("volume"))
}
