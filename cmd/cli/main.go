package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "driftnote-cli",
	Short: "Operational CLI for the driftnote backend",
	Long:  "Inspect and manage the featured ranking data that backs the discovery feeds.",
}

func main() {
	_ = godotenv.Load()

	rootCmd.AddCommand(rankingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
