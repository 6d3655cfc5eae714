package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/presentation/tui"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the node types available in the palette",
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(domain.Catalog()); err != nil {
				fmt.Printf("Error encoding catalog: %v\n", err)
				os.Exit(1)
			}
			return
		}
		tui.PrintCatalog(os.Stdout, domain.Catalog())
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
