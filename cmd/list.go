package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"clipnote/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const maxTitleColumn = 60

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured videos",
	Long:  `Displays the captured videos of the user, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		filterTags, err := clix.ParseTags(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}

		videos, err := appInstance.ContentService.ListVideos(cmd.Context(), userID, pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		out := cmd.OutOrStdout()
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"ID", "Platform", "Title", "Status", "Tags", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		shown := 0
		for _, v := range videos {
			if !hasAnyTag(v.Tags, filterTags) {
				continue
			}
			shown++
			table.Append([]string{
				strconv.FormatInt(v.ID, 10),
				v.Platform.DisplayName(),
				truncateColumn(v.Title, maxTitleColumn),
				v.Status,
				strings.Join(v.Tags, ", "),
				v.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		if shown == 0 {
			fmt.Fprintln(out, "No videos found.")
			return nil
		}
		table.Render()
		return nil
	},
}

// hasAnyTag reports whether tags contains one of want, ignoring case. An
// empty want matches everything.
func hasAnyTag(tags, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, t := range tags {
		for _, w := range want {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

func truncateColumn(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func parseIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID '%s': please provide a positive number", arg)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	clix.AddPaginationFlags(listCmd.Flags())
	listCmd.Flags().StringP("tags", "T", "", "Comma-separated tags to filter by (match any)")
}
