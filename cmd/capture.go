package cmd

import (
	"fmt"
	"io"
	"strings"

	"clipnote/internal/models"
	"clipnote/internal/services"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var capturePreview bool

var captureCmd = &cobra.Command{
	Use:     "capture [url...]",
	Aliases: []string{"add"},
	Short:   "Capture one or more video URLs",
	Long: `Extracts the transcript of each URL, then stores it with a title, a summary
and tags. Capturing a URL that is already stored refreshes it in place.
With --preview nothing is stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		var failed int
		for _, rawURL := range args {
			if capturePreview {
				preview, err := appInstance.ContentService.PreviewURL(cmd.Context(), rawURL)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", color.RedString("ERROR"), rawURL, err)
					continue
				}
				printPreview(out, rawURL, preview)
				continue
			}

			log.Debugf("Capturing %s for user %d", rawURL, userID)
			video, err := appInstance.ContentService.ProcessURL(cmd.Context(), userID, rawURL)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s %s: %v\n", color.RedString("ERROR"), rawURL, err)
				continue
			}
			printCaptured(out, video)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d URL(s) failed", failed, len(args))
		}
		return nil
	},
}

func printCaptured(out io.Writer, video *models.Video) {
	status := color.GreenString("Captured")
	switch video.Status {
	case models.VideoStatusPending:
		status = color.YellowString("Queued")
	case models.VideoStatusFailed:
		status = color.RedString("Failed")
	}
	fmt.Fprintf(out, "%s [%d] %s (%s)\n", status, video.ID, video.Title, video.Platform.DisplayName())
	if video.Summary != "" {
		fmt.Fprintf(out, "  Summary: %s\n", video.Summary)
	}
	if len(video.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:    %s\n", strings.Join(video.Tags, ", "))
	}
}

func printPreview(out io.Writer, rawURL string, p *services.Preview) {
	if p.Error != "" {
		fmt.Fprintf(out, "%s %s: %s\n", color.RedString("No transcript"), rawURL, p.Error)
		return
	}
	fmt.Fprintf(out, "%s %s (%s, %d chars via %s)\n", color.CyanString("Preview"), p.Title, p.Platform.DisplayName(), p.TranscriptLength, p.Method)
	fmt.Fprintf(out, "  Summary: %s\n", p.Summary)
	fmt.Fprintf(out, "  Tags:    %s\n", strings.Join(p.Tags, ", "))
	fmt.Fprintf(out, "  Head:    %s\n", p.TranscriptHead)
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().BoolVar(&capturePreview, "preview", false, "Extract and analyze without storing")
}
