package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	tagQueue    bool
	tagNoBar    bool
	tagListTopN int
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "List, set and regenerate tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with their usage counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		tags, err := appInstance.TagService.ListTags(cmd.Context(), userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(tags) == 0 {
			fmt.Fprintln(out, "No tags found.")
			return nil
		}
		if tagListTopN > 0 && len(tags) > tagListTopN {
			tags = tags[:tagListTopN]
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Tag", "Count"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, t := range tags {
			table.Append([]string{t.Name, strconv.Itoa(t.Count)})
		}
		table.Render()
		return nil
	},
}

var tagSetCmd = &cobra.Command{
	Use:   "set [video_id] [tag...]",
	Short: "Replace the tags of a video",
	Long:  `Replaces the tags of a video. Tags are trimmed and deduplicated ignoring case.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		tags, err := appInstance.ContentService.UpdateTags(cmd.Context(), userID, id, args[1:])
		if err != nil {
			return fmt.Errorf("failed to apply tags to video %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Video %d tags: %s\n", id, strings.Join(tags, ", "))
		return nil
	},
}

var tagRegenerateCmd = &cobra.Command{
	Use:   "regenerate [video_id]",
	Short: "Recompute the tags of a video from its transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		if tagQueue {
			if appInstance.JobClient == nil {
				return fmt.Errorf("--queue needs ingest.async and a reachable Redis")
			}
			if err := appInstance.JobClient.EnqueueRegenerateTags(cmd.Context(), userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued tag regeneration for video %d\n", id)
			return nil
		}
		tags, err := appInstance.ContentService.RegenerateTags(cmd.Context(), userID, id)
		if err != nil {
			return fmt.Errorf("failed to regenerate tags for video %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Video %d tags: %s\n", id, strings.Join(tags, ", "))
		return nil
	},
}

var tagRegenerateAllCmd = &cobra.Command{
	Use:   "regenerate-all",
	Short: "Recompute the tags of every video",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if tagQueue {
			if appInstance.JobClient == nil {
				return fmt.Errorf("--queue needs ingest.async and a reachable Redis")
			}
			if err := appInstance.JobClient.EnqueueRegenerateAllTags(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Queued tag regeneration for all videos")
			return nil
		}

		var bar *progressbar.ProgressBar
		progress := func(done, total int) {
			if tagNoBar {
				return
			}
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("Regenerating tags"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
		res, err := appInstance.ContentService.RegenerateAllTags(cmd.Context(), userID, progress)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return err
		}

		for _, r := range res.Results {
			if r.Error != "" {
				fmt.Fprintf(out, "%s [%d] %s: %s\n", color.RedString("FAIL"), r.ID, r.Title, r.Error)
			}
		}
		fmt.Fprintf(out, "Processed %d videos: %d updated, %d failed\n", res.Processed, res.Updated, res.Failed)
		return nil
	},
}

func init() {
	tagListCmd.Flags().IntVarP(&tagListTopN, "top", "n", 0, "Show only the N most used tags")
	tagRegenerateCmd.Flags().BoolVar(&tagQueue, "queue", false, "Run on the worker instead of inline")
	tagRegenerateAllCmd.Flags().BoolVar(&tagQueue, "queue", false, "Run on the worker instead of inline")
	tagRegenerateAllCmd.Flags().BoolVar(&tagNoBar, "no-progress", false, "Do not draw a progress bar")

	tagCmd.AddCommand(tagListCmd, tagSetCmd, tagRegenerateCmd, tagRegenerateAllCmd)
	rootCmd.AddCommand(tagCmd)
}
