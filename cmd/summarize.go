package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"clipnote/internal/config"
	"clipnote/internal/costtracker"
	"clipnote/internal/inputprocessor"
	"clipnote/internal/intelligence"
	"clipnote/internal/services"
	"clipnote/pkg/categorizer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	summarizeUseLLM bool
	summarizeJSON   bool
	summarizeTitle  string
)

// summaryReport is the output of the summarize command.
type summaryReport struct {
	Title      string   `json:"title,omitempty"`
	Source     string   `json:"source"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Topics     []string `json:"topics"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Method     string   `json:"method"`
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [input]",
	Short: "Summarize and tag a file, URL, stdin (-) or text without storing it",
	Long: `Runs the content analysis on any input: an extractive summary, tags, topics
and a category. No database is needed. With --llm the configured provider
writes the summary and the categories, falling back to local analysis when it
is unavailable.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		res, err := inputprocessor.New(cmd.InOrStdin(), nil).Process(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(res.Body) == "" {
			return fmt.Errorf("input %q has no text", args[0])
		}
		title := summarizeTitle
		if title == "" {
			title = res.Title
		}

		report, err := analyze(cmd, cfg, title, res)
		if err != nil {
			return err
		}
		return printReport(cmd, report)
	},
}

func analyze(cmd *cobra.Command, cfg *config.Config, title string, res inputprocessor.Result) (*summaryReport, error) {
	ctx := cmd.Context()
	tax, err := intelligence.LoadTaxonomy(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}
	analyzer, err := intelligence.NewAnalyzer(tax)
	if err != nil {
		return nil, err
	}
	keyword := categorizer.NewKeywordCategorizer(analyzer)

	var (
		summary string
		cat     categorizer.ContentCategorizer = keyword
	)
	if summarizeUseLLM {
		llm, err := services.NewCompletionService(ctx, cfg, costtracker.New(nil, cfg))
		if err != nil {
			return nil, err
		}
		prompt := config.LoadPromptOrDefault(cfg.LLM.SummaryPrompt, "summary.txt", services.DefaultSummarySystemPrompt)
		summary = services.NewSummaryService(llm, analyzer, prompt).GenerateSummary(ctx, res.Body)
		cat = categorizer.NewLLMCategorizer(llm, "", keyword)
	} else {
		summary = analyzer.Summarize(res.Body)
	}

	result, err := cat.Categorize(ctx, categorizer.CategorizationRequest{Title: title, Body: res.Body})
	if err != nil {
		return nil, err
	}
	return &summaryReport{
		Title:      title,
		Source:     res.Source,
		Summary:    summary,
		Tags:       result.SuggestedTags,
		Topics:     result.Topics,
		Category:   result.SuggestedCategory,
		Confidence: result.Confidence,
		Method:     result.Source,
	}, nil
}

func printReport(cmd *cobra.Command, r *summaryReport) error {
	out := cmd.OutOrStdout()
	if summarizeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	bold := color.New(color.Bold)
	if r.Title != "" {
		bold.Fprintln(out, r.Title)
	}
	fmt.Fprintf(out, "%s %s (%.0f%% confidence, %s)\n", bold.Sprint("Category:"), r.Category, r.Confidence*100, r.Method)
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("Topics:  "), strings.Join(r.Topics, ", "))
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("Tags:    "), strings.Join(r.Tags, ", "))
	fmt.Fprintf(out, "\n%s\n", r.Summary)
	return nil
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeUseLLM, "llm", false, "Use the configured LLM provider")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the report as JSON")
	summarizeCmd.Flags().StringVarP(&summarizeTitle, "title", "t", "", "Title used for categorization")
	rootCmd.AddCommand(summarizeCmd)
}
