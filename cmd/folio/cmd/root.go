package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio site front-end",
	Long: `folio serves the public portfolio pages and the admin console in front of
the portfolio REST API.

Available commands:
  serve      Run the web server
  resolve    Show which API environment a hostname resolves to
  version    Print the version

Use "folio [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
