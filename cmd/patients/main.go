package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "patients",
		Short:        "Patient record service and client",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("server", "http://localhost:8000", "Base URL of a running service (client commands)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(clientCmds()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
