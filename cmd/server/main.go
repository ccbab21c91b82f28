package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/arhyth/bankreg"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	bootlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := bankreg.LoadConfig(*cfp)
	if err != nil {
		bootlog.Fatal().Err(err).Msg("error loading config")
	}
	logger := cfg.Logger(os.Stderr)

	ids, err := cfg.IDGenerator()
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting id generator")
	}

	repo := bankreg.NewMemoryRepository()
	bank := bankreg.NewBank(repo, bankreg.WithIDGenerator(ids), bankreg.WithLogger(&logger))
	for _, bal := range cfg.SeedAccounts {
		id := bank.OpenAccount(bal)
		logger.Info().Int64("acctID", id).Float64("balance", bal).Msg("seed account opened")
	}

	svc := bankreg.Chain(
		bankreg.NewService(bank, &logger),
		bankreg.NewValidationMiddleware(),
		bankreg.NewCircuitBreakMiddleware(cfg.ServiceBreaker(&logger)),
		bankreg.NewLimitMiddleware(cfg.ServiceLimits()),
	)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: bankreg.NewHTTPHandler(svc, &logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err = g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
	logger.Info().Msg("server stopped")
}
