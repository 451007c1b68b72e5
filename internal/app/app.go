// Package app wires the process together: storage, cache, services,
// HTTP server and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/veytrix/busgo/internal/config"
	"github.com/veytrix/busgo/internal/postgres"
	redisx "github.com/veytrix/busgo/internal/redis"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	"github.com/veytrix/busgo/internal/service"
	"github.com/veytrix/busgo/internal/service/auth"
	httpgin "github.com/veytrix/busgo/internal/transport/http/gin"
)

// Run starts the backend and blocks until SIGINT/SIGTERM or a fatal
// component error.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	const op = "app.Run"

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer pool.Close()

	rdb, err := redisx.New(ctx, redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer rdb.Close()

	store := postgresrepo.NewStore(pool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewBusPubSub(rdb)
	idem := redisrepo.NewIdempotencyStore(rdb, cfg.IdempotencyTTL)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb,
		redisx.KeyRateLimit("bookings", "ip"),
		cfg.RateLimit.Limit,
		cfg.RateLimit.Window,
	)

	svcs := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Auth: auth.Config{
			Secret:   []byte(cfg.Auth.JWTSecret),
			TokenTTL: cfg.Auth.TokenTTL,
		},
	})

	router := httpgin.NewRouter(svcs, idem, logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr, "env", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	// Other instances announce inventory changes; drop the local cached
	// views so the next read refetches.
	g.Go(func() error {
		err := pubsub.Subscribe(gCtx, func(ctx context.Context, busID string) {
			if err := cache.InvalidateBus(ctx, busID); err != nil {
				logger.Warn("cache invalidation failed", "bus_id", busID, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: subscribe: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: shutdown: %w", op, err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped cleanly")

	return nil
}
