package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aaronzipp/spyfall-bot/internal/catalog"
	"github.com/aaronzipp/spyfall-bot/internal/config"
	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/handlers"
	"github.com/aaronzipp/spyfall-bot/internal/store"
	"github.com/aaronzipp/spyfall-bot/internal/telegram"
	"github.com/aaronzipp/spyfall-bot/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "spyfall:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dotenvErr := config.LoadDotenv()
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	if dotenvErr != nil {
		logger.Warn(".env file not found, using system variables")
	}

	locations, closeStore, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := store.NewRegistry(game.NewGameID)
	interp := handlers.NewContext(sessions, locations, game.Locked(game.NewRand()), logger,
		cfg.DevPassphrase, cfg.DevExitPhrase)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.HTTPAddr != "" {
		srv := web.NewServer(interp, cfg.InviteURL, logger.Named("web"))
		g.Go(func() error { return srv.ListenAndServe(ctx, cfg.HTTPAddr) })
	}
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, interp, logger.Named("telegram"))
		if err != nil {
			return err
		}
		g.Go(func() error { return bot.Run(ctx) })
	} else {
		logger.Warn("SPYFALL_TELEGRAM_TOKEN not set, serving web clients only")
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openCatalog loads the location catalog from the configured backend. An
// empty sqlite database is seeded from the JSON files in the catalog dir
func openCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.Catalog, func(), error) {
	logger = logger.Named("catalog")
	files := catalog.NewFileStore(cfg.CatalogDir)

	var (
		backend catalog.Store = files
		closeFn               = func() {}
	)
	if cfg.CatalogBackend == config.BackendSQLite {
		db, err := catalog.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() {
			if err := db.Close(); err != nil {
				logger.Warn("close sqlite catalog", zap.Error(err))
			}
		}
		empty, err := db.Empty(ctx)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if empty {
			if err := catalog.Seed(ctx, db, files); err != nil {
				closeFn()
				return nil, nil, fmt.Errorf("seed sqlite catalog from %s: %w", cfg.CatalogDir, err)
			}
			logger.Info("seeded sqlite catalog", zap.String("from", cfg.CatalogDir))
		}
		backend = db
	}

	c, err := catalog.Open(ctx, backend, logger.With(zap.String("backend", cfg.CatalogBackend)))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return c, closeFn, nil
}
