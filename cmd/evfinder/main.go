package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "evfinder",
		Short:        "Find UK EV charging stations and compare running costs",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(nearestCmd())
	rootCmd.AddCommand(costCmd())
	rootCmd.AddCommand(factCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
