package server

import (
	"log/slog"
	"net/http"

	"github.com/nfrund/folio/internal/activity"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/pubsub"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/nfrund/folio/internal/storage"
	"github.com/samber/do/v2"
)

// provideServices registers the shared services every module may invoke.
func provideServices(i do.Injector, cfg *config.Config, logger *slog.Logger) {
	do.ProvideValue(i, cfg)
	do.ProvideValue(i, logger)

	do.Provide(i, func(i do.Injector) (*config.Resolver, error) {
		profiles := config.DefaultProfiles()
		if cfg.EnvironmentsFile != "" {
			loaded, err := config.LoadProfiles(cfg.EnvironmentsFile)
			if err != nil {
				return nil, err
			}
			profiles = loaded
		}
		return config.NewResolver(profiles, cfg.AppEnv, logger), nil
	})

	do.Provide(i, func(i do.Injector) (*backend.Pool, error) {
		return backend.NewPool(&http.Client{Timeout: cfg.BackendTimeout}, logger), nil
	})

	do.Provide(i, func(i do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})

	do.Provide(i, func(i do.Injector) (storage.Store, error) {
		if cfg.UploadStagingDir == "" {
			return storage.NewMemoryStore(), nil
		}
		return storage.NewDirStore(cfg.UploadStagingDir)
	})

	do.Provide(i, func(i do.Injector) (*storage.Stager, error) {
		return storage.NewStager(do.MustInvoke[storage.Store](i), storage.StagerConfig{
			MaxBytes: cfg.UploadMaxBytes,
			TTL:      cfg.UploadTTL,
			Logger:   logger,
		}), nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(logger), nil
	})

	do.Provide(i, func(i do.Injector) (*activity.Recorder, error) {
		return activity.NewRecorder(do.MustInvoke[*pubsub.WatermillBridge](i), logger), nil
	})

	do.Provide(i, func(i do.Injector) (*activity.Feed, error) {
		return activity.NewFeed(activity.DefaultFeedSize), nil
	})
}
