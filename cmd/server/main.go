package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"onboard/internal/directory"
	"onboard/internal/journal"
	"onboard/internal/journey"
	"onboard/internal/journey/metrics"
	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/redis"
	"onboard/internal/session"
	"onboard/internal/token"
	httptransport "onboard/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}

	var journalStore journal.Store
	if redisClient != nil {
		journalStore = journal.NewRedisStore(redisClient.Client, journal.WithTTL(cfg.SessionIdleTTL))
		log.Info("journal backed by redis")
	} else {
		journalStore = journal.NewInMemoryStore()
		log.Info("journal backed by memory")
	}

	journeyMetrics := metrics.New()
	issuer := token.NewService(cfg.JWTSigningKey, cfg.TokenIssuerName, cfg.CompletionTTL)
	dir := directory.NewFixtureDirectory()

	factory := func() (*journey.Orchestrator, error) {
		return journey.New(dir,
			journey.WithLogger(log),
			journey.WithJournal(journalStore),
			journey.WithMetrics(journeyMetrics),
			journey.WithTokenIssuer(issuer),
		)
	}

	registry, err := session.New(factory,
		session.WithLogger(log),
		session.WithIdleTTL(cfg.SessionIdleTTL),
	)
	if err != nil {
		log.Error("session registry init failed", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(registry, journalStore, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting onboard server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		registry.Run(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
