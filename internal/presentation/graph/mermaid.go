package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rapidfire/pkg/domain"
)

// Overlay marks sounds to highlight on the diagram, keyed as "sceneID/soundID".
type Overlay struct {
	Highlighted []string
}

// GenerateMermaid produces a Mermaid flowchart of the project: one node per
// scene, one per sound. Sound shapes follow the variant:
// - BGM: ((Circle))
// - SE: [Rectangle]
// - Voice: [/Parallelogram/]
// Looped sounds hang off a dotted edge; muted sounds (volume 0) are greyed out.
func GenerateMermaid(p domain.Project, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := "project"
	sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", root, quote(p.DisplayName)))

	var muted []string
	for _, scene := range p.Scenes {
		sceneID := "scene_" + sanitizeMermaidID(scene.ID)
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", sceneID, quote(scene.DisplayName)))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", root, sceneID))

		for _, sound := range scene.Sounds {
			soundID := soundNodeID(scene.ID, sound.ID)

			opener, closer := "[", "]"
			switch sound.Variant {
			case domain.VariantBackgroundMusic:
				opener, closer = "((", "))"
			case domain.VariantVoice:
				opener, closer = "[/", "/]"
			}

			sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> 🔊 %d\"%s\n", soundID, opener, quote(sound.DisplayName), sound.Volume, closer))

			arrow := "-->"
			if sound.Looped {
				arrow = "-. ⟳ .->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", sceneID, arrow, soundID))

			if sound.Volume == domain.MinVolume {
				muted = append(muted, soundID)
			}
		}
	}

	if len(muted) > 0 || (overlay != nil && len(overlay.Highlighted) > 0) {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef muted fill:#eeeeee,stroke:#9e9e9e,color:#616161;\n")
		sb.WriteString("    classDef highlighted fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range muted {
			sb.WriteString(fmt.Sprintf("    class %s muted;\n", id))
		}

		if overlay != nil {
			seen := make(map[string]bool)
			for _, ref := range overlay.Highlighted {
				sceneID, soundID, ok := strings.Cut(ref, "/")
				if !ok {
					continue
				}
				if _, found := p.FindSound(sceneID, soundID); !found {
					continue
				}
				safeID := soundNodeID(sceneID, soundID)
				if !seen[safeID] {
					seen[safeID] = true
					sb.WriteString(fmt.Sprintf("    class %s highlighted;\n", safeID))
				}
			}
		}
	}

	return sb.String()
}

func soundNodeID(sceneID, soundID string) string {
	return "sound_" + sanitizeMermaidID(sceneID) + "__" + sanitizeMermaidID(soundID)
}

func quote(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
