package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/muesli/termenv"
)

// ProjectMarkdown renders the project as one table per scene.
func ProjectMarkdown(p domain.Project) string {
	var b strings.Builder

	name := p.DisplayName
	if name == "" {
		name = "Untitled project"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(name))

	if len(p.Scenes) == 0 {
		b.WriteString("_No scenes._\n")
		return b.String()
	}

	for _, scene := range p.Scenes {
		fmt.Fprintf(&b, "## %s `%s`\n\n", escape(scene.DisplayName), scene.ID)
		if len(scene.Sounds) == 0 {
			b.WriteString("_No sounds._\n\n")
			continue
		}
		b.WriteString("| ID | Name | Variant | Volume | Looped | Path |\n")
		b.WriteString("|---|---|---|---:|:---:|---|\n")
		for _, s := range scene.Sounds {
			looped := ""
			if s.Looped {
				looped = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %d | %s | %s |\n",
				s.ID, escape(s.DisplayName), s.Variant, s.Volume, looped, escape(s.Path))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// EventLine formats one hub event for the terminal subscriber.
func EventLine(p termenv.Profile, ev domain.Event) string {
	switch ev.Type {
	case domain.EventVolumeWarning:
		if ev.Warning == nil {
			return ""
		}
		return WarningLine(p, ev.Warning.IsFull)
	case domain.EventProjectUpdated:
		if ev.Project == nil {
			return ""
		}
		sounds := 0
		for _, s := range ev.Project.Scenes {
			sounds += len(s.Sounds)
		}
		return p.String(fmt.Sprintf("↻ project %q updated (%d scenes, %d sounds)",
			ev.Project.DisplayName, len(ev.Project.Scenes), sounds)).Foreground(p.Color("#60a5fa")).String()
	}
	data, _ := json.Marshal(ev.Payload())
	return fmt.Sprintf("%s %s", ev.Type, data)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
