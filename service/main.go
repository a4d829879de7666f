package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	r "stockdash/data/repos"
	"stockdash/service/config"
	c "stockdash/service/core"
	"stockdash/service/logger"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:   "stockdash",
		Usage:  "compare the daily closes and returns of two stocks",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "load prices and serve the dashboard",
				Action: serve,
			},
			{
				Name:  "describe",
				Usage: "print the statistics table of two tickers",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "t1", Usage: "first ticker, defaults to the first of TICKERS"},
					&cli.StringFlag{Name: "t2", Usage: "second ticker, defaults to the second of TICKERS"},
				},
				Action: describe,
			},
			{
				Name:   "sync",
				Usage:  "download every ticker and store it in the database",
				Action: syncPrices,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "stockdash: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires the service context, the returned
// cleanup closes whatever was opened
func bootstrap(ctx context.Context) (*config.Config, *c.ServiceContext, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	if cfg.EnvFileError != nil {
		log.Info(".env not loaded", zap.Error(cfg.EnvFileError))
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	sc := &c.ServiceContext{
		Context:          ctx,
		Logger:           log,
		Provider:         provider,
		Tickers:          cfg.Tickers,
		Start:            cfg.StartDate,
		End:              cfg.EndDate,
		FetchConcurrency: cfg.FetchConcurrency,
	}

	cleanup := func() { _ = log.Sync() }

	// if we need to have any other connections, we can add them here
	if cfg.UsesDatabase() {
		pg, err := r.GetPostgresConnection(ctx, cfg.DatabaseUrl)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}

		sc.Store = pg
		cleanup = func() {
			pg.Close()
			_ = log.Sync()
		}
	} else {
		log.Info("DATABASE_URL not set, prices will not be stored")
	}

	return cfg, sc, cleanup, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, sc, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	series, err := sc.LoadPriceSeries()
	if err != nil {
		sc.Logger.Error("failed to load price series", zap.Error(err))
		return err
	}

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc, c.NewDashboard(series), cfg.HttpAddr, cfg.CorsAllowOrigins)

	serverErr := make(chan error, 1)
	go func() {
		sc.Logger.Info("starting dashboard server", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// wait here until the context is closed (ie, ctrl+C) or the server dies
	select {
	case <-ctx.Done():
		sc.Logger.Info("received shutdown signal, shutting down gracefully")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		sc.Logger.Error("server shutdown error", zap.Error(err))
	}

	sc.Logger.Info("server stopped successfully")
	return nil
}

func describe(ctx context.Context, cmd *cli.Command) error {
	_, sc, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	series, err := sc.LoadPriceSeries()
	if err != nil {
		return err
	}

	state, err := c.NewDashboard(series).Resolve(cmd.String("t1"), cmd.String("t2"))
	if err != nil {
		return err
	}

	fmt.Println(c.RenderStatisticsTable(state))
	return nil
}

func syncPrices(ctx context.Context, cmd *cli.Command) error {
	_, sc, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	counts, err := sc.SyncPriceSeries()
	if err != nil {
		return err
	}

	for _, symbol := range sc.Tickers {
		sc.Logger.Info("synced", zap.String("symbol", symbol), zap.Int("rows", counts[symbol]))
	}
	return nil
}
