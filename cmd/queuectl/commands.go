package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// StatusCmd reports aggregate queue statistics
func StatusCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := client.stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Items:      %d total (%d queued, %d uploading, %d completed, %d failed, %d cancelled, %d duplicate)\n",
				stats.Total, stats.Queued, stats.Uploading, stats.Completed,
				stats.Failed, stats.Cancelled, stats.Duplicate)
			fmt.Printf("Bytes:      %d / %d uploaded\n", stats.UploadedBytes, stats.TotalBytes)
			fmt.Printf("Progress:   %d%%\n", stats.OverallProgress)
			if stats.UploadSpeed > 0 {
				fmt.Printf("Speed:      %.0f B/s (about %ds remaining)\n",
					stats.UploadSpeed, stats.EstimatedTimeRemainingSeconds)
			}
			fmt.Printf("Processing: %v, paused: %v\n", stats.IsProcessing, stats.IsPaused)
			return nil
		},
	}
}

// ItemsCmd lists queue items, optionally narrowed to one project
func ItemsCmd(client *apiClient) *cobra.Command {
	var project string

	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := client.items(cmd.Context(), project)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("Queue is empty.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILENAME\tPROJECT\tSTATUS\tPROGRESS\tRETRIES\tERROR")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
					item.ID, item.Filename, item.ProjectID, item.Status,
					item.Progress, item.RetryCount, item.Error)
			}
			return w.Flush()
		},
	}
	itemsCmd.Flags().StringVar(&project, "project", "", "Only show items for this project")
	return itemsCmd
}

// RetryCmd requeues one failed item, or all of them
func RetryCmd(client *apiClient) *cobra.Command {
	var all bool

	retryCmd := &cobra.Command{
		Use:   "retry [item-id]",
		Short: "Retry a failed or cancelled item (--all for every failed item)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := client.post(cmd.Context(), "/api/v1/queue/retry-all", nil); err != nil {
					return err
				}
				fmt.Println("All failed items requeued.")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("an item id is required unless --all is set")
			}
			if err := client.post(cmd.Context(), "/api/v1/queue/items/"+args[0]+"/retry", nil); err != nil {
				return err
			}
			fmt.Printf("Item %s requeued.\n", args[0])
			return nil
		},
	}
	retryCmd.Flags().BoolVar(&all, "all", false, "Retry every failed item")
	return retryCmd
}

// CancelCmd cancels one item, or all active items
func CancelCmd(client *apiClient) *cobra.Command {
	var all bool

	cancelCmd := &cobra.Command{
		Use:   "cancel [item-id]",
		Short: "Cancel a queued or in-flight item (--all for every active item)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := client.post(cmd.Context(), "/api/v1/queue/cancel-all", nil); err != nil {
					return err
				}
				fmt.Println("All active items cancelled.")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("an item id is required unless --all is set")
			}
			if err := client.post(cmd.Context(), "/api/v1/queue/items/"+args[0]+"/cancel", nil); err != nil {
				return err
			}
			fmt.Printf("Item %s cancelled.\n", args[0])
			return nil
		},
	}
	cancelCmd.Flags().BoolVar(&all, "all", false, "Cancel every active item")
	return cancelCmd
}

// RemoveCmd removes an item from the queue entirely
func RemoveCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.delete(cmd.Context(), "/api/v1/queue/items/"+args[0]); err != nil {
				return err
			}
			fmt.Printf("Item %s removed.\n", args[0])
			return nil
		},
	}
}

// ResolveCmd applies a skip-or-replace decision to a duplicate item
func ResolveCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <item-id> <skip|replace>",
		Short: "Resolve a duplicate-parked item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"resolution": args[1]}
			if err := client.post(cmd.Context(), "/api/v1/queue/items/"+args[0]+"/resolve", body); err != nil {
				return err
			}
			fmt.Printf("Item %s resolved (%s).\n", args[0], args[1])
			return nil
		},
	}
}

// PauseCmd stops new transfers from starting
func PauseCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.post(cmd.Context(), "/api/v1/queue/pause", nil); err != nil {
				return err
			}
			fmt.Println("Queue paused.")
			return nil
		},
	}
}

// ResumeCmd restarts transfer scheduling
func ResumeCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.post(cmd.Context(), "/api/v1/queue/resume", nil); err != nil {
				return err
			}
			fmt.Println("Queue resumed.")
			return nil
		},
	}
}

// ClearCmd drops items from the queue by category
func ClearCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:       "clear <completed|errors|all>",
		Short:     "Drop completed items, failed items, or the whole queue",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"completed", "errors", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			switch args[0] {
			case "completed":
				path = "/api/v1/queue/clear-completed"
			case "errors":
				path = "/api/v1/queue/clear-errors"
			case "all":
				path = "/api/v1/queue/clear"
			default:
				return fmt.Errorf("unknown clear target %q", args[0])
			}

			if err := client.post(cmd.Context(), path, nil); err != nil {
				return err
			}
			fmt.Printf("Cleared %s.\n", args[0])
			return nil
		},
	}
}
