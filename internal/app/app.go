package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"swipr/internal/config"
	"swipr/internal/digest"
	"swipr/internal/logging"
	"swipr/internal/model"
	"swipr/internal/og"
	"swipr/internal/recommend"
	"swipr/internal/response"
	"swipr/internal/storage"
)

// Application wires configs to the engine and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	store    *storage.Store
	handle   *model.Handle
	manager  *model.Manager
	engine   *recommend.Engine
	enricher *og.Fetcher
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	handle := model.NewHandle()
	manager := model.NewManager(store, handle, cfg.ML.InferenceURL, cfg.ML.APIKey,
		baseLogger.With("component", "model"))

	engine := recommend.NewEngine(recommend.Deps{
		Store:  store,
		Models: handle,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger: baseLogger.With("component", "engine"),
	})

	enricher := og.NewFetcher(store, nil, baseLogger.With("component", "og"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		handle:   handle,
		manager:  manager,
		engine:   engine,
		enricher: enricher,
	}, nil
}

// Run performs one recommendation round: load the active model, pick a
// batch, enrich picks that lack an image, and write the digest page.
func (a *Application) Run(ctx context.Context) error {
	if err := a.manager.LoadActive(ctx); err != nil {
		return err
	}

	picks, err := a.engine.Batch(ctx, a.cfg.Digest.Count, nil)
	if err != nil {
		return fmt.Errorf("select batch: %w", err)
	}

	items := make([]response.Item, 0, len(picks))
	for _, pick := range picks {
		item := response.Format(pick)
		if item.ImageURL == "" && item.Link != "" {
			if meta, err := a.enricher.Fetch(ctx, item.ID, item.Link, false); err == nil {
				item.ImageURL = meta.Image
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		a.logger.Info("no unrated articles remain")
		return nil
	}

	if err := digest.WriteFile(a.cfg.Digest.OutputPath, items); err != nil {
		return err
	}

	stats, err := a.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	a.logger.Info("digest written",
		"path", a.cfg.Digest.OutputPath,
		"items", len(items),
		"model", a.handle.CurrentName(),
		"remaining", stats.PostsRemaining)
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.store.Close()
}
