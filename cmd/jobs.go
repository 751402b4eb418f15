package cmd

import (
	"fmt"
	"strconv"
	"time"

	"clipnote/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// jobsCmd lists background jobs recorded by the job client and worker.
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recorded background jobs",
	Long:  `Lists the jobs handed to the worker, newest first, with their status and last error.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		jobs, err := appInstance.Store.ListJobs(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(jobs) == 0 {
			fmt.Fprintln(out, "No jobs found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Job ID", "Task Type", "Queue", "Status", "Entity", "Last Error", "Updated At"})
		table.SetBorder(true)
		table.SetRowLine(true)
		for _, job := range jobs {
			table.Append([]string{
				job.JobID.String(),
				job.TaskType,
				job.Queue,
				job.Status,
				formatEntity(job.RelatedEntityType, job.RelatedEntityID),
				formatNullString(job.LastError),
				job.UpdatedAt.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

func formatEntity(kind *string, id *int64) string {
	if kind == nil || id == nil {
		return "N/A"
	}
	return *kind + " " + strconv.FormatInt(*id, 10)
}

// formatNullString returns the pointed-to string or "N/A".
func formatNullString(s *string) string {
	if s != nil && *s != "" {
		return truncateColumn(*s, maxTitleColumn)
	}
	return "N/A"
}

func init() {
	clix.AddPaginationFlags(jobsCmd.Flags())
	rootCmd.AddCommand(jobsCmd)
}
