package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/tvratings/internal/jobs"
	"github.com/abelbrown/tvratings/internal/otel"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <series name>",
		Short: "Ask the job service to extract ratings for a series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")

			return ctx.withLogger(func(logger *otel.Logger) error {
				client := jobs.NewClient(cfg.JobURL())
				job, err := client.Schedule(cmd.Context(), name)
				if err != nil {
					logger.Emit(otel.Event{
						Level: otel.LevelError,
						Kind:  otel.KindJobError,
						Comp:  "jobs",
						Query: name,
						Err:   err.Error(),
					})
					return err
				}
				logger.Emit(otel.Event{
					Level:  otel.LevelInfo,
					Kind:   otel.KindJobSubmit,
					Comp:   "jobs",
					Query:  job.Name,
					Status: job.Status.String(),
					Extra:  map[string]any{"job_id": job.ID},
				})
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled job %d for %q: %s\n", job.ID, job.Name, job.Status)
				return nil
			})
		},
	}
}

func newJobCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Show the status of an extraction job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("job id must be a number, got %q", args[0])
			}

			job, err := jobs.NewClient(cfg.JobURL()).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Series", "Status"},
				[][]string{{strconv.Itoa(job.ID), job.Name, job.Status.String()}},
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
