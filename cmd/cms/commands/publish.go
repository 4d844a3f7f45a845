package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewPublishCommand creates the publish command group
func NewPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Manage publish jobs",
		Long:  "Submit publish jobs against the management API and track their progress",
	}

	cmd.AddCommand(newPublishSubmitCommand())
	cmd.AddCommand(newPublishJobCommand())

	return cmd
}

func newPublishSubmitCommand() *cobra.Command {
	var (
		operation string
		channels  []string
		wait      bool
	)

	cmd := &cobra.Command{
		Use:   "submit ITEM_ID...",
		Short: "Submit a publish job",
		Long:  "Submit a publish or unpublish job for one or more items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			req := cms.NewRequest()

			job, err := client.Publishing().Submit(ctx, req, &cms.PublishJobRequest{
				Operation: operation,
				Items:     args,
				Channels:  channels,
			})
			if err != nil {
				return fmt.Errorf("failed to submit publish job: %w", err)
			}

			if wait {
				job, err = client.Publishing().PollJob(ctx, job.ID, req, nil)
				if err != nil {
					return fmt.Errorf("publish job did not complete: %w", err)
				}
			}

			return renderJob(job)
		},
	}

	cmd.Flags().StringVarP(&operation, "operation", "o", "publish", "job operation (publish, unpublish)")
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "target channel (repeatable)")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll until the job completes")

	return cmd
}

func newPublishJobCommand() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "job JOB_ID",
		Short: "Get a publish job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			req := cms.NewRequest()

			var (
				job  *cms.PublishJob
				err2 error
			)

			if wait {
				job, err2 = client.Publishing().PollJob(ctx, args[0], req, nil)
			} else {
				job, err2 = client.Publishing().GetJob(ctx, args[0], req)
			}

			if err2 != nil {
				return fmt.Errorf("failed to get publish job: %w", err2)
			}

			return renderJob(job)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll until the job completes")

	return cmd
}

func renderJob(job *cms.PublishJob) error {
	done, err := renderStructured(job)
	if done {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append([]string{"ID", job.ID})
	_ = table.Append([]string{"Operation", job.Operation})
	_ = table.Append([]string{"Status", string(job.Status)})
	_ = table.Append([]string{"Items", strings.Join(job.Items, ", ")})
	_ = table.Append([]string{"Started", formatDate(job.StartedDate)})
	_ = table.Append([]string{"Completed", formatDate(job.CompletedDate)})

	if job.Message != "" {
		_ = table.Append([]string{"Message", job.Message})
	}

	_ = table.Render()

	return nil
}
