package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// Config describes the helper program that reports the host output volume.
// The helper prints one reading in [0.0, 1.0] per line on stdout.
type Config struct {
	Command     string            `yaml:"command" json:"command" mapstructure:"command"`
	Args        []string          `yaml:"args" json:"args" mapstructure:"args"`
	Environment map[string]string `yaml:"env" json:"env" mapstructure:"env"`
	Dir         string            `yaml:"dir" json:"dir" mapstructure:"dir"`
}

// Validate checks that a command is set.
func (c Config) Validate() error {
	if c.Command == "" {
		return errors.New("volume helper command is empty")
	}
	return nil
}

func (c Config) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Dir = c.Dir

	if len(c.Environment) > 0 {
		keys := make([]string, 0, len(c.Environment))
		for k := range c.Environment {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		env := cmd.Environ()
		for _, k := range keys {
			env = append(env, fmt.Sprintf("%s=%s", k, c.Environment[k]))
		}
		cmd.Env = env
	}
	return cmd
}
