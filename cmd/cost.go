package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"clipnote/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// costCmd represents the base command for cost operations.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "View AI usage costs",
	Long:  `Lists recorded LLM calls with their token counts and cost, and summarizes the spend per model.`,
}

var costListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detailed AI usage logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return fmt.Errorf("invalid pagination flags: %w", err)
		}

		logs, err := appInstance.CostService.ListUsage(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list cost logs: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, "No cost logs found.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTimestamp\tProvider\tService\tModel\tIn Tokens\tOut Tokens\tCost\tUser\tVideo\tJob")
		fmt.Fprintln(w, "--\t---------\t--------\t-------\t-----\t---------\t----------\t----\t----\t-----\t---")
		for _, l := range logs {
			userStr, videoStr, jobStr := "N/A", "N/A", "N/A"
			if l.UserID != nil {
				userStr = strconv.FormatInt(*l.UserID, 10)
			}
			if l.RelatedVideoID != nil {
				videoStr = strconv.FormatInt(*l.RelatedVideoID, 10)
			}
			if l.RelatedJobID != nil {
				jobStr = l.RelatedJobID.String()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%.8f\t%s\t%s\t%s\n",
				l.ID,
				l.Timestamp.Format("2006-01-02 15:04:05"),
				l.ProviderName,
				l.ServiceType,
				l.ModelName,
				l.InputTokens,
				l.OutputTokens,
				l.Cost,
				userStr,
				videoStr,
				jobStr,
			)
		}
		w.Flush()

		fmt.Fprintf(out, "\nDisplayed %d logs.\n", len(logs))
		return nil
	},
}

var costSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total AI cost and token usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		totals, err := appInstance.CostService.GetSummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get cost summary: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "AI Usage Cost Summary:")
		fmt.Fprintln(out, "----------------------")
		fmt.Fprintf(out, "Total Cost:          $%.6f\n", totals.TotalCost)
		fmt.Fprintf(out, "Total Input Tokens:  %d\n", totals.TotalInputTokens)
		fmt.Fprintf(out, "Total Output Tokens: %d\n", totals.TotalOutputTokens)
		if len(totals.ByModel) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Provider", "Model", "Calls", "In Tokens", "Out Tokens", "Cost"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, m := range totals.ByModel {
			table.Append([]string{
				m.ProviderName,
				m.ModelName,
				strconv.Itoa(m.Calls),
				strconv.Itoa(m.InputTokens),
				strconv.Itoa(m.OutputTokens),
				fmt.Sprintf("$%.6f", m.Cost),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	costCmd.AddCommand(costListCmd)
	costCmd.AddCommand(costSummaryCmd)
	clix.AddPaginationFlags(costListCmd.Flags())
	rootCmd.AddCommand(costCmd)
}
