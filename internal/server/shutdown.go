package server

import (
	"context"
	"errors"

	"github.com/nfrund/folio/internal/pubsub"
	"github.com/samber/do/v2"
)

// Shutdown stops accepting requests, then releases module and shared resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if bus, err := do.Invoke[*pubsub.WatermillBridge](s.injector); err == nil {
		if err := bus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = s.injector.Shutdown()
	return errors.Join(errs...)
}
