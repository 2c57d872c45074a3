package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage batch report jobs",
}

var jobsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Queue a batch report job",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		by, _ := cmd.Flags().GetString("submitted-by")
		id, err := a.queue.Submit(ctx, filtersFromFlags(cmd), by)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status JOB_ID",
	Short: "Print a job snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		j, err := a.queue.Get(ctx, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(j)
	},
}

var jobsRunOnceCmd = &cobra.Command{
	Use:   "run-once",
	Short: "Process all pending jobs once and exit",
	Long:  `Runs a single worker tick: every pending job is claimed and processed in submission order. Useful from cron when no server is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		pending, err := a.jobStore.ListPending(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(os.Stderr, "No pending jobs.")
			return nil
		}
		a.worker(nil).Tick(ctx)
		fmt.Fprintf(os.Stderr, "Processed %d job(s).\n", len(pending))
		return nil
	},
}

func init() {
	addFilterFlags(jobsSubmitCmd)
	jobsSubmitCmd.Flags().String("submitted-by", "", "user id recorded as the job owner")

	jobsCmd.AddCommand(jobsSubmitCmd, jobsStatusCmd, jobsRunOnceCmd)
	rootCmd.AddCommand(jobsCmd)
}
