package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"tweet-clock/ai"
	"tweet-clock/config"
	"tweet-clock/controllers"
	"tweet-clock/helpers"
	"tweet-clock/models"
	"tweet-clock/services"
	"tweet-clock/store"
	"tweet-clock/tasks"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app := helpers.CreateApp(cfg.DataDir, cfg.Env != "prod")
	if err := app.Bootstrap(); err != nil {
		return fmt.Errorf("bootstrapping app: %w", err)
	}
	defer app.ResetBootstrapState()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tweetStore, closeStore, err := openStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.AutoMigrate {
		if err := tweetStore.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating store: %w", err)
		}
	}

	svc := services.NewTweetService(services.Options{
		Store:         tweetStore,
		Generator:     newGenerator(cfg, app),
		Publisher:     newPublisher(cfg, app),
		DefaultAPIKey: cfg.External.DefaultAPIKey,
		Username:      cfg.External.Username,
		Logger:        helpers.Logger(app, "services"),
	})

	tweetController := controllers.NewTweetController(svc, helpers.Logger(app, "controllers"))

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		controllers.SetupTweetRoutes(se, tweetController)
		return se.Next()
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- apis.Serve(app, apis.ServeConfig{
			ShowStartBanner: true,
			HttpAddr:        cfg.HTTPAddr,
			AllowedOrigins:  cfg.AllowedOrigins,
		})
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger().Info("Shutting down")
	return app.OnTerminate().Trigger(&core.TerminateEvent{App: app})
}

// openStore picks the backend from DATABASE_URL. Empty means the app's own
// embedded SQLite database.
func openStore(ctx context.Context, cfg config.Config, app *pocketbase.PocketBase) (store.Store, func(), error) {
	noop := func() {}
	dsn := cfg.DatabaseURL

	switch {
	case dsn == "":
		app.Logger().Info("Using embedded store", "dataDir", app.DataDir())
		return store.NewSQLStore(app.DB()), noop, nil

	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		db, err := models.ConnectSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		app.Logger().Info("Using sqlite store", "path", path)
		return store.NewSQLStore(db), func() { db.Close() }, nil

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := models.ConnectDatabase(dsn, cfg.Env)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		app.Logger().Info("Using postgres store")
		return store.NewGormStore(db), closeDB, nil

	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		rdb, err := models.ConnectRedis(ctx, dsn, cfg.Env)
		if err != nil {
			return nil, noop, err
		}
		app.Logger().Info("Using redis store")
		return store.NewRedisStore(rdb), func() { rdb.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unsupported DATABASE_URL scheme: %q", dsn)
}

// newGenerator returns nil when no provider key is configured so the service
// keeps running and reports generation as unavailable.
func newGenerator(cfg config.Config, app *pocketbase.PocketBase) services.Generator {
	logger := helpers.Logger(app, "ai")
	if !cfg.GeneratorEnabled() {
		logger.Warn("OPENROUTER_API_KEY not set, tweet generation disabled")
		return nil
	}

	completer, err := ai.NewOpenRouter(ai.OpenRouterConfig{
		APIKey:      cfg.OpenRouter.APIKey,
		BaseURL:     cfg.OpenRouter.BaseURL,
		Temperature: cfg.OpenRouter.Temperature,
		MaxTokens:   cfg.OpenRouter.MaxTokens,
		Timeout:     cfg.OpenRouter.Timeout(),
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize AI service", "error", err)
		return nil
	}

	logger.Info("AI service initialized", "primary", cfg.OpenRouter.PrimaryModel, "fallback", cfg.OpenRouter.FallbackModel)
	return ai.NewTweetGenerator(completer, cfg.OpenRouter.PrimaryModel, cfg.OpenRouter.FallbackModel, logger)
}

func newPublisher(cfg config.Config, app *pocketbase.PocketBase) tasks.Publisher {
	logger := helpers.Logger(app, "tasks")

	if cfg.External.Target == tasks.TargetTwitter {
		return tasks.NewTwitterPublisher(cfg.External.Timeout(), logger)
	}
	return tasks.NewClonePublisher(tasks.CloneConfig{
		BaseURL:  cfg.External.BaseURL,
		Endpoint: cfg.External.Endpoint,
		Timeout:  cfg.External.Timeout(),
	}, logger)
}
