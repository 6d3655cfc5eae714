package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/script"
)

// PlayOptions configures the play command.
type PlayOptions struct {
	ScriptPath string
	Save       bool
	Format     string
	Render     func(string) (string, error)
}

// Play replays a gesture script on a fresh editor and prints the resulting workflow.
// With Save set the workflow is persisted and its key reported before the output.
func Play(ctx context.Context, stack *Stack, opts PlayOptions, w io.Writer) error {
	sc, err := script.Load(opts.ScriptPath)
	if err != nil {
		return err
	}
	steps, err := sc.Compile()
	if err != nil {
		return err
	}

	var extra []flowcanvas.Option
	if sc.Name != "" {
		extra = append(extra, flowcanvas.WithName(sc.Name))
	}
	if sc.AgentID != "" {
		extra = append(extra, flowcanvas.WithAgentID(sc.AgentID))
	}
	editor := stack.NewEditor(extra...)

	player := script.NewPlayer(script.WithLogger(stack.Logger))
	results, err := player.Play(ctx, editor, steps)
	if err != nil {
		return fmt.Errorf("script %s: %w", opts.ScriptPath, err)
	}
	stack.Logger.Info("Script played", "script", opts.ScriptPath, "steps", len(results))

	key := ""
	if opts.Save {
		key, err = editor.Save(ctx)
		if err != nil {
			return err
		}
		printSystemMessage(w, "Saved as %s", key)
	}

	return WriteDocument(w, key, editor.Document(), opts.Format, opts.Render)
}
