package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nfrund/folio/internal/activity"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/pubsub"
	"github.com/nfrund/folio/internal/storage"
	"github.com/samber/do/v2"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Start runs the background workers and the HTTP server until ctx is
// cancelled, then shuts everything down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.startWorkers(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.Cfg.ServerAddr)
		if err := s.E.Start(s.Cfg.ServerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return s.Shutdown(shutdownCtx)
}

// startWorkers feeds the activity feed, sweeps expired uploads and watches the
// environments file.
func (s *Server) startWorkers(ctx context.Context) error {
	bus := do.MustInvoke[*pubsub.WatermillBridge](s.injector)
	if err := do.MustInvoke[*activity.Feed](s.injector).Start(ctx, bus); err != nil {
		return err
	}

	go do.MustInvoke[*storage.Stager](s.injector).Run(ctx, sweepInterval)

	if path := s.Cfg.EnvironmentsFile; path != "" {
		if err := config.WatchProfiles(ctx, path, do.MustInvoke[*config.Resolver](s.injector), s.logger); err != nil {
			s.logger.Warn("Environments file will not be reloaded", "path", path, "error", err)
		}
	}
	return nil
}
