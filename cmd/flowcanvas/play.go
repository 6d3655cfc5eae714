package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <script.yaml>",
	Short: "Replay a gesture script and print the resulting workflow",
	Long: `Replays a recorded sequence of editor gestures (clicks, menu picks, connections)
on an empty canvas. The resulting workflow is printed and, with --save, persisted
to the configured store.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		save, _ := cmd.Flags().GetBool("save")
		format, _ := cmd.Flags().GetString("format")

		stack := mustStack(cmd)
		defer stack.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := cli.Play(ctx, stack, cli.PlayOptions{
			ScriptPath: args[0],
			Save:       save,
			Format:     format,
			Render:     markdownRenderer(),
		}, os.Stdout)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("save", false, "Persist the workflow after replaying")
	playCmd.Flags().StringP("format", "f", cli.FormatJSON, "Output format: json, mermaid or markdown")
}
