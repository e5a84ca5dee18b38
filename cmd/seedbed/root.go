package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seedbed",
	Short: "Seedbed is a fluent orchestration engine for multi-step test scenarios",
	Long:  `Seedbed chains record creation, actions, assertions, and cleanup against external record stores while tracking identifiers for you.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}
