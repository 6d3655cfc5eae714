package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/validator"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <key|file.json>",
	Short: "Check a workflow for consistency",
	Long: `Checks a workflow document (a stored key or a JSON file) for unknown node types,
duplicate ids, connections to missing nodes and nodes no trigger can reach.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := readDocument(cmd, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := validator.ValidateDocument(doc); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// readDocument treats arg as a file when one exists at that path, and as a store key otherwise.
func readDocument(cmd *cobra.Command, arg string) (domain.Document, error) {
	if data, err := os.ReadFile(arg); err == nil {
		return domain.ParseDocument(data)
	}

	stack, err := loadStack(cmd)
	if err != nil {
		return domain.Document{}, err
	}
	defer stack.Close()
	return stack.LoadDocument(context.Background(), arg)
}
