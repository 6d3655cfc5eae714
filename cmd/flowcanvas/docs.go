package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

// docsCmd groups the commands working on stored workflows.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect and manage stored workflows",
}

var docsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored workflows",
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustStack(cmd)
		defer stack.Close()

		if err := cli.ListDocuments(context.Background(), stack, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a stored workflow",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		showDocument(cmd, args[0], format)
	},
}

var docsGraphCmd = &cobra.Command{
	Use:   "graph <key>",
	Short: "Export a stored workflow as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showDocument(cmd, args[0], cli.FormatMermaid)
	},
}

var docsRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "Delete a stored workflow",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustStack(cmd)
		defer stack.Close()

		if err := cli.RemoveDocument(context.Background(), stack, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", args[0])
	},
}

var docsDiffCmd = &cobra.Command{
	Use:   "diff <old-key> <new-key>",
	Short: "Show what changed between two stored workflows",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustStack(cmd)
		defer stack.Close()

		if err := cli.DiffDocuments(context.Background(), stack, args[0], args[1], os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func showDocument(cmd *cobra.Command, key, format string) {
	stack := mustStack(cmd)
	defer stack.Close()

	err := cli.ShowDocument(context.Background(), stack, key, format, markdownRenderer(), os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd, docsShowCmd, docsGraphCmd, docsDiffCmd, docsRemoveCmd)

	docsShowCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: json, mermaid or markdown")
}
