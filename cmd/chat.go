package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"clipnote/internal/app"
	"clipnote/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatHistoryLimit int

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask questions about everything you have captured",
	Long: `Answers a question from the most relevant videos and notes. Without a
message it starts an interactive session; an empty line or EOF ends it.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			return chatOnce(cmd, appInstance, userID, strings.Join(args, " "), out)
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, color.CyanString("you> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				return nil
			}
			if err := chatOnce(cmd, appInstance, userID, line, out); err != nil {
				return err
			}
		}
	},
}

func chatOnce(cmd *cobra.Command, appInstance *app.App, userID int64, message string, out io.Writer) error {
	reply, err := appInstance.ChatService.Send(cmd.Context(), userID, message)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n", color.GreenString("clipnote>"), reply.Response)
	printMatched(out, reply.MatchedVideos)
	return nil
}

func printMatched(out io.Writer, matched []models.MatchedItem) {
	if len(matched) == 0 {
		return
	}
	parts := make([]string, 0, len(matched))
	for _, m := range matched {
		parts = append(parts, fmt.Sprintf("%s #%d %s", m.Type, m.ID, m.Title))
	}
	fmt.Fprintf(out, "%s %s\n", color.HiBlackString("sources:"), strings.Join(parts, "; "))
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent chat messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		msgs, err := appInstance.ChatService.History(cmd.Context(), userID, chatHistoryLimit)
		if err != nil {
			return fmt.Errorf("error listing chat history: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(msgs) == 0 {
			fmt.Fprintln(out, "No chat history found.")
			return nil
		}
		for _, m := range msgs {
			fmt.Fprintf(out, "%s %s %s\n", color.HiBlackString(m.CreatedAt.Format("2006-01-02 15:04")), color.CyanString("you>"), m.Message)
			fmt.Fprintf(out, "%s\n", m.Response)
			printMatched(out, m.MatchedItems)
			fmt.Fprintln(out)
		}
		return nil
	},
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the chat history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		n, err := appInstance.ChatService.Clear(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to clear chat history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d chat messages\n", n)
		return nil
	},
}

func init() {
	chatHistoryCmd.Flags().IntVarP(&chatHistoryLimit, "limit", "n", 20, "Maximum number of messages to show")
	chatCmd.AddCommand(chatHistoryCmd, chatClearCmd)
	rootCmd.AddCommand(chatCmd)
}
