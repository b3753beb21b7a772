package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	addr := os.Getenv("FIELDSYNC_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}

	client := newAPIClient(addr)
	rootCmd := &cobra.Command{
		Use:   "queuectl",
		Short: "Inspect and control the fieldsync upload queue daemon",
		// the flag is parsed after construction, so rebind the client here
		PersistentPreRun: func(*cobra.Command, []string) {
			client.baseURL = addr
		},
	}
	rootCmd.PersistentFlags().StringVar(&addr, "addr", addr, "Base URL of the daemon's status API")

	rootCmd.AddCommand(StatusCmd(client))
	rootCmd.AddCommand(ItemsCmd(client))
	rootCmd.AddCommand(RetryCmd(client))
	rootCmd.AddCommand(CancelCmd(client))
	rootCmd.AddCommand(RemoveCmd(client))
	rootCmd.AddCommand(ResolveCmd(client))
	rootCmd.AddCommand(PauseCmd(client))
	rootCmd.AddCommand(ResumeCmd(client))
	rootCmd.AddCommand(ClearCmd(client))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
