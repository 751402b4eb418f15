package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"clipnote/internal/search"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const snippetRunes = 120

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search captured videos and notes",
	Long: `Ranks the user's videos and notes against the query by keyword relevance.
Title matches weigh most, then tags, summary and transcript.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}

		items, err := appInstance.Store.ListContentItems(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}
		results := search.Search(query, items)

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Score", "Type", "ID", "Title", "Snippet"})
		table.SetBorder(false)
		table.SetRowLine(true)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, r := range results {
			table.Append([]string{
				strconv.FormatFloat(r.RelevanceScore, 'f', -1, 64),
				string(r.Item.Type),
				strconv.FormatInt(r.Item.ID, 10),
				truncateColumn(r.Item.Title, maxTitleColumn),
				truncateColumn(strings.Join(strings.Fields(r.MatchedSnippet), " "), snippetRunes),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
