package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all sources for a novel",
	Long:  `Run an aggregated search across every registered source and print the merged results.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
		defer cancel()

		result := appEngine.SearchBooks(ctx, query)

		bold := color.New(color.Bold)
		dim := color.New(color.Faint)

		bold.Printf("Results for %q (%d)\n\n", result.Query, result.TotalResults)

		shown := result.Results
		if searchLimit > 0 && len(shown) > searchLimit {
			shown = shown[:searchLimit]
		}
		for _, book := range shown {
			fmt.Printf("  %s\n", book.Title)
			dim.Printf("    %s | %s | %s\n", book.Source, book.Author, book.Link)
		}
		if len(shown) < result.TotalResults {
			dim.Printf("\n  ... and %d more\n", result.TotalResults-len(shown))
		}
		if result.Message != "" {
			color.Yellow("\n%s\n", result.Message)
		}
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum results to print")
	rootCmd.AddCommand(searchCmd)
}
