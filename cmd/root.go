package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Folio/pkg/engine"
)

var appEngine *engine.Engine
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio is a content-acquisition server for web-serialized novels.",
	Long: "Folio searches novel-hosting sites, scrapes book details and chapter text, " +
		"and serves the results over a read-only HTTP JSON API.",
	Run: func(cmd *cobra.Command, args []string) {
		// When no command is specified, display help
		if err := cmd.Help(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
