package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"clipnote/internal/clix"
	"clipnote/internal/fileingest"
	"clipnote/internal/inputprocessor"
	"clipnote/internal/models"
	"clipnote/internal/services"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	noteTitle string
	noteSave  bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Notes are free text that is searched and chatted over together with the captured videos.`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [input]",
	Short: "Add a note from a file, URL, stdin (-) or literal text",
	Long: `Adds a note. The input is a file path, an http(s) URL, "-" for stdin, or the
note text itself. If --title is not provided it defaults to the page title or
the file name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := clix.ParseTags(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}

		proc := inputprocessor.New(cmd.InOrStdin(), nil)
		res, err := proc.Process(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		title := noteTitle
		if title == "" {
			title = defaultNoteTitle(res)
		}
		if title == "" {
			return errors.New("a title is required for literal text: pass --title")
		}

		note := &models.Note{UserID: userID, Title: title, Content: res.Body, Tags: tags}
		if err := appInstance.NoteService.CreateNote(cmd.Context(), note); err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note added (ID: %d): %s\n", note.ID, note.Title)
		return nil
	},
}

// defaultNoteTitle is the page title, else the file name without extension.
func defaultNoteTitle(res inputprocessor.Result) string {
	if res.Title != "" {
		return res.Title
	}
	if res.FilePath != "" {
		base := filepath.Base(res.FilePath)
		if title := strings.TrimSuffix(base, filepath.Ext(base)); title != "" {
			return title
		}
		return base
	}
	return ""
}

var noteImportCmd = &cobra.Command{
	Use:   "import [directory]",
	Short: "Import every markdown, text and HTML file under a directory as notes",
	Long: `Walks the directory recursively and adds one note per .md, .markdown, .txt or
.html file, titled after the file name. Hidden files and directories are
skipped. Empty files are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := clix.ParseTags(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}

		files, err := fileingest.Discover(cmd.Context(), args[0], nil)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", args[0], err)
		}
		out := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(out, "No note files found.")
			return nil
		}

		proc := inputprocessor.New(cmd.InOrStdin(), nil)
		imported, failed := 0, 0
		for _, f := range files {
			res, err := proc.Process(cmd.Context(), f.Path)
			if err == nil && strings.TrimSpace(res.Body) == "" {
				err = errors.New("file is empty")
			}
			if err == nil {
				note := &models.Note{UserID: userID, Title: f.Title, Content: res.Body, Tags: tags}
				err = appInstance.NoteService.CreateNote(cmd.Context(), note)
			}
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s %s: %v\n", color.RedString("Failed"), f.Path, err)
				continue
			}
			imported++
		}
		fmt.Fprintf(out, "Imported %d notes, %d failed\n", imported, failed)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		notes, err := appInstance.NoteService.ListNotes(cmd.Context(), userID, pagination.Limit, pagination.Offset)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"ID", "Title", "Tags", "AI", "Updated At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, n := range notes {
			ai := ""
			if n.IsAIGenerated {
				ai = "yes"
			}
			table.Append([]string{
				strconv.FormatInt(n.ID, 10),
				truncateColumn(n.Title, maxTitleColumn),
				strings.Join(n.Tags, ", "),
				ai,
				n.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		table.Render()
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show [note_id]",
	Short: "Show a note",
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
		n, err := appInstance.NoteService.GetNote(cmd.Context(), userID, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintln(out, n.Title)
		if len(n.Tags) > 0 {
			fmt.Fprintf(out, "Tags: %s\n", strings.Join(n.Tags, ", "))
		}
		fmt.Fprintf(out, "\n%s\n", n.Content)
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note_id]",
	Short: "Delete a note",
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
		if err := appInstance.NoteService.DeleteNote(cmd.Context(), userID, id); err != nil {
			return fmt.Errorf("failed to delete note %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
		return nil
	},
}

var noteAskCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Draft a note by asking the LLM",
	Long:  `Asks the configured LLM the question and drafts a titled, tagged note from the answer. Use --save to store it.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, userID, err := appAndUser(cmd)
		if err != nil {
			return err
		}
		draft, err := appInstance.NoteService.AskAI(cmd.Context(), userID, strings.Join(args, " "))
		if err != nil {
			if errors.Is(err, services.ErrLLMUnavailable) {
				return fmt.Errorf("%w: check the llm section of the config or run 'clipnote doctor'", err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintln(out, draft.Title)
		fmt.Fprintf(out, "Tags: %s\n\n%s\n", strings.Join(draft.Tags, ", "), draft.Content)
		if !noteSave {
			return nil
		}
		note := &models.Note{UserID: userID, Title: draft.Title, Content: draft.Content, Tags: draft.Tags, IsAIGenerated: true}
		if err := appInstance.NoteService.CreateNote(cmd.Context(), note); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		fmt.Fprintf(out, "\nSaved as note %d\n", note.ID)
		return nil
	},
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	noteAddCmd.Flags().StringP("tags", "T", "", "Comma-separated tags")
	noteImportCmd.Flags().StringP("tags", "T", "", "Comma-separated tags applied to every imported note")
	clix.AddPaginationFlags(noteListCmd.Flags())
	noteAskCmd.Flags().BoolVar(&noteSave, "save", false, "Store the drafted note")

	noteCmd.AddCommand(noteAddCmd, noteImportCmd, noteListCmd, noteShowCmd, noteDeleteCmd, noteAskCmd)
	rootCmd.AddCommand(noteCmd)
}
