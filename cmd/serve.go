package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/config"
	"github.com/AnnaCarter465/taxpadi/database"
	"github.com/AnnaCarter465/taxpadi/handler"
	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/AnnaCarter465/taxpadi/receipt"
	"github.com/spf13/cobra"
)

type store interface {
	handler.Store
	receipt.Store
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TaxPadi HTTP API",
		Long: `Start the HTTP API. Configuration is read from the environment
and an optional .env file:

  PORT              listen port (default 8080)
  DATABASE_URL      Postgres connection string, empty for the in-memory store
  OPENAI_API_KEY    key used to read VAT from receipt images
  OPENAI_MODEL      vision model (default gpt-4o-mini)
  OPENAI_BASE_URL   optional OpenAI-compatible endpoint
  MAX_UPLOAD_BYTES  largest accepted receipt (default 10 MiB)
  SHUTDOWN_TIMEOUT  graceful shutdown window (default 10s)`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store, func() error, error) {
	if cfg.DatabaseURL == "" {
		return database.NewMemoryDB(database.SeedUsers...), func() error { return nil }, nil
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, db.Close, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL is empty, using the in-memory store")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty, receipt uploads will fail")
	}

	extractor := receipt.NewOpenAIExtractor(
		receipt.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		cfg.OpenAIModel,
	)

	e := handler.New(handler.Deps{
		Store:          st,
		Ledger:         receipt.NewLedger(extractor, st),
		Resolver:       access.NewResolver(access.DefaultTable()),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	errc := make(chan error, 1)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")

		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case <-shutdown:
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	}

	log.Info().Msg("shutting down the server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(ctx)
}
