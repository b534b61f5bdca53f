package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/saku/internal/scheduler"
)

var jobArgs string

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage scheduled jobs",
	RunE:  runJobsList,
}

var jobsAddCmd = &cobra.Command{
	Use:   "add <name> <tool> <cron-expr>",
	Short: "Add a scheduled job",
	Long: `Add a job that invokes a tool on a standard five-field cron
schedule. Tool arguments are passed as a JSON object via --args.`,
	Args: cobra.ExactArgs(3),
	RunE: runJobsAdd,
}

var jobsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsRemove,
}

func init() {
	jobsAddCmd.Flags().StringVar(&jobArgs, "args", "{}", "tool arguments as a JSON object")
	jobsCmd.AddCommand(jobsAddCmd)
	jobsCmd.AddCommand(jobsRemoveCmd)
	rootCmd.AddCommand(jobsCmd)
}

func openScheduler() (*scheduler.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return scheduler.NewService(reg, cfg.Scheduler.JobsPath)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	svc, err := openScheduler()
	if err != nil {
		return err
	}

	jobs := svc.Jobs()
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No jobs configured.")
		return nil
	}
	for _, job := range jobs {
		last := "never"
		if job.LastRunAt != nil {
			last = fmt.Sprintf("%s (%s)",
				job.LastRunAt.Local().Format(time.RFC3339), job.LastStatus)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s %-12s %-14s last run: %s\n",
			job.ID, job.Name, job.Tool, job.Expr, last)
	}
	return nil
}

func runJobsAdd(cmd *cobra.Command, args []string) error {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(jobArgs), &toolArgs); err != nil {
		return fmt.Errorf("invalid --args: %w", err)
	}

	svc, err := openScheduler()
	if err != nil {
		return err
	}
	job, err := svc.Add(args[0], args[1], toolArgs, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %s created\n", job.ID)
	return nil
}

func runJobsRemove(cmd *cobra.Command, args []string) error {
	svc, err := openScheduler()
	if err != nil {
		return err
	}
	if err := svc.Remove(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %s removed\n", args[0])
	return nil
}
