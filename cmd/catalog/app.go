package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/prob-markets/internal/api"
	"github.com/rickgao/prob-markets/internal/auth"
	"github.com/rickgao/prob-markets/internal/catalog"
	"github.com/rickgao/prob-markets/internal/commentary"
	"github.com/rickgao/prob-markets/internal/config"
	"github.com/rickgao/prob-markets/internal/database"
	"github.com/rickgao/prob-markets/internal/gamma"
	"github.com/rickgao/prob-markets/internal/normalize"
	"github.com/rickgao/prob-markets/internal/selector"
	"github.com/rickgao/prob-markets/internal/source"
	"github.com/rickgao/prob-markets/internal/store"
	"github.com/rickgao/prob-markets/internal/version"
	"github.com/rickgao/prob-markets/internal/writer"
)

// app holds everything a build needs.
type app struct {
	cfg     *config.Config
	builder *catalog.Builder
	store   *store.FileStore
	pool    *pgxpool.Pool
	archive *writer.CatalogWriter
	logger  *slog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	ua := version.UserAgent()

	// Polymarket
	gammaClient := gamma.NewClient(
		cfg.Polymarket.BaseURL,
		gamma.WithLogger(logger),
		gamma.WithTimeout(cfg.Polymarket.Timeout),
		gamma.WithRetries(cfg.Polymarket.MaxRetries, time.Second),
		gamma.WithRateLimit(cfg.Polymarket.RateLimit),
		gamma.WithUserAgent(ua),
	)
	orders := make([]gamma.Order, len(cfg.Polymarket.Orders))
	for i, o := range cfg.Polymarket.Orders {
		orders[i] = gamma.Order(o)
	}
	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithPolymarket(source.NewPolymarket(gammaClient, source.PolymarketConfig{
			Orders:   orders,
			PageSize: cfg.Polymarket.PageSize,
			MaxPages: cfg.Polymarket.MaxPages,
		}, logger)),
	}

	// Kalshi
	if cfg.Kalshi.IsEnabled() {
		kalshiOpts := []api.ClientOption{
			api.WithLogger(logger),
			api.WithTimeout(cfg.Kalshi.Timeout),
			api.WithRetries(cfg.Kalshi.MaxRetries, time.Second),
			api.WithRateLimit(cfg.Kalshi.RateLimit),
			api.WithUserAgent(ua),
		}
		if cfg.Kalshi.HasCredentials() {
			creds, err := kalshiCredentials(cfg.Kalshi)
			if err != nil {
				return nil, err
			}
			kalshiOpts = append(kalshiOpts, api.WithCredentials(creds))
		}
		kalshiClient := api.NewClient(cfg.Kalshi.RestURL, kalshiOpts...)
		opts = append(opts, catalog.WithKalshi(source.NewKalshi(kalshiClient, source.KalshiConfig{
			Categories: cfg.Kalshi.Categories,
			PageSize:   cfg.Kalshi.PageSize,
			MaxPages:   cfg.Kalshi.MaxPages,
		}, logger)))
	} else {
		logger.Info("kalshi disabled")
	}

	// Pipeline stages
	selCfg := selector.DefaultConfig()
	selCfg.MoversCount = cfg.Selection.MoversCount
	selCfg.TickerCount = cfg.Selection.TickerCount
	opts = append(opts,
		catalog.WithNormalizer(normalize.New(
			normalize.WithLogger(logger),
			normalize.WithMinVolume(cfg.Polymarket.MinVolume, cfg.Kalshi.MinVolume),
		)),
		catalog.WithSelector(selector.New(selCfg, selector.WithLogger(logger))),
		catalog.WithHistoryWindow(cfg.Selection.HistoryWindow),
		catalog.WithCommentary(newCommentary(cfg.Commentary, logger)),
	)

	builder, err := catalog.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create builder: %w", err)
	}

	st, err := store.NewFileStore(cfg.Store.DataDir, cfg.Store.CatalogFile, cfg.Store.SnapshotFile, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, builder: builder, store: st, logger: logger}

	// Optional archive
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		a.archive = writer.NewCatalogWriter(writer.DefaultWriterConfig(), pool, logger)
		if err := a.archive.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected")
	}

	return a, nil
}

func kalshiCredentials(k config.KalshiConfig) (*auth.Credentials, error) {
	if k.PrivateKey != "" {
		return auth.ParseCredentials(k.APIKey, k.PrivateKey)
	}
	return auth.LoadCredentials(k.APIKey, k.PrivateKeyPath)
}

func newCommentary(cfg config.CommentaryConfig, logger *slog.Logger) commentary.Generator {
	if !cfg.Enabled || cfg.APIKey == "" {
		logger.Info("commentary disabled")
		return commentary.Noop{}
	}
	return commentary.NewClaude(cfg.APIKey,
		commentary.WithModel(cfg.Model),
		commentary.WithMaxTokens(cfg.MaxTokens),
		commentary.WithTimeout(cfg.Timeout),
		commentary.WithLogger(logger),
	)
}

// runOnce loads state, builds a catalog and persists it. State is written
// only after a successful build. Archive failures are logged.
func (a *app) runOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Schedule.Timeout)
	defer cancel()

	start := time.Now()
	state, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	res, err := a.builder.Build(ctx, state, time.Now())
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	if err := a.store.Save(res.Catalog, res.Snapshot); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if a.archive != nil {
		if err := a.archive.Write(ctx, res.Catalog); err != nil {
			a.logger.Error("archive failed", "run_id", res.Catalog.RunID, "error", err)
		}
	}

	a.logger.Info("run complete",
		"run_id", res.Catalog.RunID,
		"duration", time.Since(start),
	)
	return nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
