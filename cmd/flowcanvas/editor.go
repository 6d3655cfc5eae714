package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

// openEditor returns an empty editor, or the stored workflow named by --open.
func openEditor(cmd *cobra.Command, stack *cli.Stack) *flowcanvas.Editor {
	key, _ := cmd.Flags().GetString("open")
	if key == "" {
		return stack.NewEditor()
	}
	editor, err := stack.OpenEditor(context.Background(), key)
	if err != nil {
		fmt.Printf("Error opening workflow: %v\n", err)
		os.Exit(1)
	}
	return editor
}
