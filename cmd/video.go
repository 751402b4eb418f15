package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const transcriptHeadRunes = 400

var showCmd = &cobra.Command{
	Use:   "show [video_id]",
	Short: "Show a captured video",
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
		v, err := appInstance.ContentService.GetVideo(cmd.Context(), userID, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		bold.Fprintln(out, v.Title)
		fmt.Fprintf(out, "ID:       %d\n", v.ID)
		fmt.Fprintf(out, "URL:      %s\n", v.URL)
		fmt.Fprintf(out, "Platform: %s\n", v.Platform.DisplayName())
		fmt.Fprintf(out, "Status:   %s\n", v.Status)
		fmt.Fprintf(out, "Tags:     %s\n", strings.Join(v.Tags, ", "))
		fmt.Fprintf(out, "Captured: %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "\n%s\n%s\n", bold.Sprint("Summary"), v.Summary)
		fmt.Fprintf(out, "\n%s\n%s\n", bold.Sprint("Transcript"), truncateColumn(v.Transcript, transcriptHeadRunes))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [video_id]",
	Short: "Delete a captured video",
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
		if err := appInstance.ContentService.DeleteVideo(cmd.Context(), userID, id); err != nil {
			return fmt.Errorf("failed to delete video %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted video %d\n", id)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [video_id] [title...]",
	Short: "Set the title of a video",
	Long:  `Sets the title of a video. Without a title, YouTube videos get their title looked up again.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		title, err := appInstance.ContentService.UpdateTitle(cmd.Context(), userID, id, strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to rename video %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Video %d is now titled %q\n", id, title)
		return nil
	},
}

var fixTitlesCmd = &cobra.Command{
	Use:   "fix-titles",
	Short: "Replace placeholder titles with the real YouTube titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		res, err := appInstance.ContentService.FixTitles(cmd.Context(), userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range res.Results {
			if r.Error != "" {
				fmt.Fprintf(out, "%s [%d] %s: %s\n", color.RedString("FAIL"), r.ID, r.OldTitle, r.Error)
				continue
			}
			fmt.Fprintf(out, "%s [%d] %s -> %s\n", color.GreenString("OK  "), r.ID, r.OldTitle, r.NewTitle)
		}
		fmt.Fprintf(out, "Processed %d videos: %d fixed, %d failed\n", res.Processed, res.Fixed, res.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, deleteCmd, renameCmd, fixTitlesCmd)
}
