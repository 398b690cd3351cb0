package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all registered novel sources",
	Long:  `Display the novel-hosting sites this server can search and scrape.`,
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewTable(os.Stdout)
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Header.Alignment.Global = tw.AlignLeft
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		var rows [][]string
		for _, s := range appEngine.Sources.All() {
			rows = append(rows, []string{
				string(s.ID()),
				s.Name(),
				strconv.Itoa(s.Priority()),
				s.BaseURL(),
			})
		}

		table.Header([]string{"ID", "Name", "Priority", "Base URL"})
		if err := table.Bulk(rows); err != nil {
			return
		}
		if err := table.Render(); err != nil {
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
