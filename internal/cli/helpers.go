package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/flowcanvas/internal/config"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Output formats shared by the commands that print a document.
const (
	FormatJSON     = "json"
	FormatMermaid  = "mermaid"
	FormatMarkdown = "markdown"
)

// NewLogger configures the application logger from the config.
// An explicit level (for example from a flag) wins over the file.
func NewLogger(cfg config.Config, level string) (*slog.Logger, error) {
	if level == "" {
		level = cfg.LogLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// WriteDocument prints doc in the requested format. Markdown goes through render
// when one is given.
func WriteDocument(w io.Writer, key string, doc domain.Document, format string, render func(string) (string, error)) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := doc.Marshal()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatMermaid:
		_, err := fmt.Fprint(w, graph.GenerateMermaid(doc, nil))
		return err
	case FormatMarkdown:
		md := tui.DocumentMarkdown(key, doc)
		if render != nil {
			out, err := render(md)
			if err != nil {
				return fmt.Errorf("failed to render markdown: %w", err)
			}
			md = out
		}
		_, err := fmt.Fprint(w, md)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, mermaid or markdown)", format)
	}
}
