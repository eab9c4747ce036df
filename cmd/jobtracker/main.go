// Package main provides the jobtracker CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtracker",
	Short: "Job application tracker",
	Long: `jobtracker records job applications and their status changes, reports
dashboard and analytics figures, and exports, imports and backs up the data.

Configuration can be loaded from a JSON file using --config. Environment
variables fill anything the file leaves unset; command-line flags override both.`,
	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootDatabaseURL string
	rootTimezone    string
	rootVerbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&rootTimezone, "timezone", "", "IANA time zone for dates (defaults to TIMEZONE env var, then local time)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
