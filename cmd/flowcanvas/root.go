package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/aretw0/flowcanvas/internal/config"
	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "flowcanvas",
	Short: "FlowCanvas is a node graph workflow editor",
	Long: `FlowCanvas edits workflows as graphs of typed nodes (triggers, agents, HTTP calls,
conditions...) and persists them to memory, files, Loam repositories or Redis.
The editor is driven over HTTP, MCP or by replaying gesture scripts.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadStack reads the configuration named by --config and builds the shared stack.
func loadStack(cmd *cobra.Command) (*cli.Stack, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg, level)
	if err != nil {
		return nil, err
	}
	return cli.Build(cfg, logger)
}

// mustStack is loadStack for commands that cannot continue without it.
func mustStack(cmd *cobra.Command) *cli.Stack {
	stack, err := loadStack(cmd)
	if err != nil {
		fmt.Printf("Error initializing flowcanvas: %v\n", err)
		os.Exit(1)
	}
	return stack
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// markdownRenderer styles markdown for terminals and leaves it raw when piped.
func markdownRenderer() func(string) (string, error) {
	if !isTerminal() {
		return nil
	}
	return tui.NewRenderer()
}
