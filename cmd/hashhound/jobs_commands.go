package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hashhound/internal/api"
	"hashhound/internal/ipc"
)

// newJobsCommand groups queue operations. Every subcommand talks to the
// daemon when it is running and falls back to the queue database otherwise.
func newJobsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage the classification job queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newJobsSubmitCommand(ctx))
	cmd.AddCommand(newJobsListCommand(ctx))
	cmd.AddCommand(newJobsShowCommand(ctx))
	cmd.AddCommand(newJobsRetryCommand(ctx))
	cmd.AddCommand(newJobsClearCommand(ctx))
	cmd.AddCommand(newJobsStatusCommand(ctx))
	cmd.AddCommand(newJobsHealthCommand(ctx))

	return cmd
}

func newJobsSubmitCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "submit [hash...]",
		Short: "Queue a hash list for background classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			hasFile := strings.TrimSpace(fileFlag) != ""
			if hasFile && len(args) > 0 {
				return errors.New("pass either --file or inline hash values, not both")
			}
			if !hasFile && len(args) == 0 {
				return errors.New("nothing to submit; pass --file or inline hash values")
			}

			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				var job api.Job
				var duplicate bool
				var err error
				if hasFile {
					job, duplicate, err = queueAPI.SubmitFile(cmd.Context(), fileFlag)
				} else {
					job, duplicate, err = queueAPI.SubmitValues(cmd.Context(), titleFlag, args)
				}
				if err != nil {
					return err
				}
				if duplicate {
					fmt.Fprintf(cmd.OutOrStdout(), "Duplicate content; matches job %d (%s)\n", job.ID, job.Title)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d (%s, %d hashes)\n", job.ID, job.Title, job.HashCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Hash list file to submit")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Title for inline submissions")

	return cmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				records, err := queueAPI.List(cmd.Context(), statusFlags)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, api.JobListResponse{Jobs: records})
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Status", "Hashes", "Identified", "Created", "Fingerprint"},
					buildJobListRows(records),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit jobs as JSON")

	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				job, err := queueAPI.Describe(cmd.Context(), id)
				if err != nil {
					return err
				}
				if job == nil {
					return fmt.Errorf("job %d not found", id)
				}
				if jsonFlag {
					return writeJSON(cmd, api.JobResponse{Job: *job})
				}
				printJobDetail(cmd, *job)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the job as JSON")

	return cmd
}

func printJobDetail(cmd *cobra.Command, job api.Job) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:           %d\n", job.ID)
	fmt.Fprintf(out, "Title:        %s\n", job.Title)
	fmt.Fprintf(out, "Status:       %s\n", formatStatusLabel(job.Status))
	fmt.Fprintf(out, "Source:       %s\n", job.SourcePath)
	fmt.Fprintf(out, "Hashes:       %d\n", job.HashCount)
	fmt.Fprintf(out, "Identified:   %d\n", job.IdentifiedCount)
	fmt.Fprintf(out, "Unidentified: %d\n", job.UnidentifiedCount)
	fmt.Fprintf(out, "Created:      %s\n", formatDisplayTime(job.CreatedAt))
	fmt.Fprintf(out, "Updated:      %s\n", formatDisplayTime(job.UpdatedAt))
	fmt.Fprintf(out, "Fingerprint:  %s\n", formatFingerprint(job.Fingerprint))
	if job.Progress.Stage != "" {
		fmt.Fprintf(out, "Progress:     %s %.0f%% %s\n", job.Progress.Stage, job.Progress.Percent, job.Progress.Message)
	}
	if job.ResultPath != "" {
		fmt.Fprintf(out, "Result:       %s\n", job.ResultPath)
	}
	if job.NeedsReview {
		fmt.Fprintf(out, "Review:       %s\n", job.ReviewReason)
	}
	if job.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:        %s\n", job.ErrorMessage)
	}
}

func newJobsRetryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry [id...]",
		Short: "Requeue failed jobs",
		Long:  "Retry moves failed jobs back to pending. Without arguments every failed job is retried.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid job id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				updated, err := queueAPI.Retry(cmd.Context(), ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d job(s)\n", updated)
				return nil
			})
		},
	}

	return cmd
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	var allFlag bool
	var failedFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove finished jobs from the queue",
		Long:  "Clear removes completed jobs by default. Use --failed for failed jobs or --all for everything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if allFlag && failedFlag {
				return errors.New("pass either --all or --failed, not both")
			}
			scope := ipc.ClearScopeCompleted
			switch {
			case allFlag:
				scope = ipc.ClearScopeAll
			case failedFlag:
				scope = ipc.ClearScopeFailed
			}

			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				removed, err := queueAPI.Clear(cmd.Context(), scope)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "Remove every job regardless of status")
	cmd.Flags().BoolVar(&failedFlag, "failed", false, "Remove failed jobs instead of completed ones")

	return cmd
}

func newJobsStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				stats, err := queueAPI.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	return cmd
}

func newJobsHealthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Summarize queue health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJobsAPI(func(queueAPI jobsAPI) error {
				health, err := queueAPI.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:      %d\n", health.Total)
				fmt.Fprintf(out, "Pending:    %d\n", health.Pending)
				fmt.Fprintf(out, "Processing: %d\n", health.Processing)
				fmt.Fprintf(out, "Completed:  %d\n", health.Completed)
				fmt.Fprintf(out, "Failed:     %d\n", health.Failed)
				fmt.Fprintf(out, "Review:     %d\n", health.Review)
				return nil
			})
		},
	}

	return cmd
}
