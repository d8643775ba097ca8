// Package app assembles the service: storage, migrations, the redirect
// registry, authentication and the HTTP server, tied to one context for
// graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	"golinks/internal/config"
	"golinks/internal/ratelimit"
	"golinks/internal/usecase"
	"golinks/pkg/postgres"
	"golinks/pkg/redis"
	"golinks/pkg/token"

	delivery "golinks/internal/adapter/delivery/http"
	pgrepo "golinks/internal/adapter/repository/postgres"
)

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	registry := usecase.New(pgrepo.NewRedirectRepository(db))
	tokens := token.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	var limiter delivery.RateLimiter
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Addr != "" {
			rdb, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
			}
			defer rdb.Close()

			limiter = ratelimit.NewSlidingWindow(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		} else {
			limiter = ratelimit.NewLocal(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst)
		}
	}

	logger := httplog.NewLogger("golinks", httplog.Options{
		Concise: cfg.Env != config.EnvProd,
	})

	router := delivery.NewRouter(logger, registry, tokens, limiter)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
