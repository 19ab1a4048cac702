package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nfrund/folio/internal/config"
	"github.com/spf13/cobra"
)

var (
	resolveFormat string
	resolveFile   string
	resolveForce  string
)

// resolveCmd shows the API environment a hostname would be served with.
var resolveCmd = &cobra.Command{
	Use:   "resolve <host>",
	Short: "Show which API environment a hostname resolves to",
	Long: `Show the environment, API URL and image base URL a request for the given
host would use.

Examples:
  folio resolve localhost:8080
  folio resolve portfolio.example.com --format json
  folio resolve example.com --file environments.yaml --env development`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := config.DefaultProfiles()
		if resolveFile != "" {
			loaded, err := config.LoadProfiles(resolveFile)
			if err != nil {
				return err
			}
			profiles = loaded
		}
		forced := config.Environment(resolveForce)
		if forced != "" && !forced.Valid() {
			return fmt.Errorf("invalid environment %q: use development or production", resolveForce)
		}

		env, endpoints := config.NewResolver(profiles, forced, nil).Resolve(args[0])
		return printResolution(cmd.OutOrStdout(), resolveFormat, env, endpoints)
	},
}

func printResolution(w io.Writer, format string, env config.Environment, endpoints config.Endpoints) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"ENV":      string(env),
			"API_URL":  endpoints.APIURL,
			"BASE_URL": endpoints.BaseURL,
		})
	case "text", "":
		_, err := fmt.Fprintf(w, "ENV       %s\nAPI_URL   %s\nBASE_URL  %s\n", env, endpoints.APIURL, endpoints.BaseURL)
		return err
	default:
		return fmt.Errorf("unknown format %q: use text or json", format)
	}
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "text", "output format (text or json)")
	resolveCmd.Flags().StringVar(&resolveFile, "file", "", "YAML file overriding the API endpoints")
	resolveCmd.Flags().StringVar(&resolveForce, "env", "", "force an environment for every host")
	rootCmd.AddCommand(resolveCmd)
}
