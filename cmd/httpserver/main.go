package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"moviedex/dataset"
	"moviedex/httpserver"
	"moviedex/movie"
	"moviedex/pkg/config"
	"moviedex/pkg/sentry"
	"moviedex/postgres"

	sentrygo "github.com/getsentry/sentry-go"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		sentry.Fatal(err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "source", cfg.Dataset.Source, "movies", catalog.Len())

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(logger),
		httpserver.WithMovieService(movie.NewUsecase(catalog)),
	)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()
	logger.Info("server started!", "addr", server.Addr)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*movie.Catalog, error) {
	switch cfg.Dataset.Source {
	case config.DatasetFile:
		return movie.LoadCatalog(ctx, dataset.FileLoader{Path: cfg.Dataset.Path})
	case config.DatasetPostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     strconv.Itoa(cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres connection: %w", err)
		}
		// the snapshot is taken once, the connection is not needed afterwards
		defer postgres.Close(db)
		return movie.LoadCatalog(ctx, postgres.NewMovieRepository(db))
	default:
		return movie.LoadCatalog(ctx, dataset.EmbeddedLoader{})
	}
}
