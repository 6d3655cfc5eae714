package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	httpAdapter "github.com/aretw0/flowcanvas/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP server",
	Long: `Starts one editor session exposed as a JSON API over HTTP: gestures, node and
connection CRUD, rendering, saving and a server-sent event stream of graph changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustStack(cmd)
		defer stack.Close()

		port := stack.Config.HTTP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		editor := openEditor(cmd, stack)

		opts := []httpAdapter.Option{
			httpAdapter.WithReader(stack.Store),
			httpAdapter.WithLogger(stack.Logger),
		}
		if stack.Metrics != nil {
			opts = append(opts, httpAdapter.WithMetricsHandler(stack.Metrics.Handler()))
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: httpAdapter.NewHandler(editor, opts...),
		}

		if isTerminal() {
			tui.PrintBanner(os.Stdout)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting FlowCanvas Server on %s\n", srv.Addr)
			fmt.Printf("Store: %s\n", stack.Config.Store.Type)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("FlowCanvas Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (defaults to http.port from the config)")
	serveCmd.Flags().String("open", "", "Key of a stored workflow to open instead of an empty canvas")
}
