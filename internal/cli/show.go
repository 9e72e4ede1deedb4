package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/rapidfire/internal/presentation/graph"
	"github.com/aretw0/rapidfire/internal/presentation/tui"
	"github.com/aretw0/rapidfire/pkg/domain"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by RunShow.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatMermaid  = "mermaid"
	FormatYAML     = "yaml"
)

// RunShow prints the project document in the requested format.
func RunShow(ctx context.Context, opts Options, format string, w io.Writer) error {
	deps, err := startApp(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	project, err := deps.App.GetProject(ctx)
	if err != nil {
		return err
	}
	return writeProject(w, project, format, isTerminal(w))
}

func writeProject(w io.Writer, p domain.Project, format string, tty bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(p, nil))
		return err
	case FormatMarkdown, "":
		render, err := tui.NewRenderer(tty)
		if err != nil {
			return err
		}
		out, err := render(tui.ProjectMarkdown(p))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q (want %s, %s, %s or %s)", format, FormatMarkdown, FormatJSON, FormatYAML, FormatMermaid)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
