package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/logging"
	"github.com/nfrund/folio/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server until interrupted.

Configuration comes from the environment and an optional .env file:
  SERVER_ADDR          listen address (default :8080)
  SESSION_SECRET       cookie signing secret (required in production)
  APP_ENV              force development or production for every host
  ENVIRONMENTS_FILE    YAML file overriding the API endpoints, reloaded on change
  BACKEND_TIMEOUT      timeout of every API call (default 10s)
  UPLOAD_MAX_BYTES     size limit of one staged image (default 10 MiB)
  UPLOAD_STAGING_DIR   directory for staged images (default: in memory)
  UPLOAD_TTL           lifetime of an unsubmitted image (default 30m)
  LOG_FORMAT           text or json
  LOG_LEVEL            debug, info, warn or error`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New()
		cfg, err := config.New()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}

		s, err := server.New(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides SERVER_ADDR")
	rootCmd.AddCommand(serveCmd)
}
