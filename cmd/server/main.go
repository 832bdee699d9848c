// Command server runs the folio content management API.
//
// Configuration is loaded from a YAML file (see config.Load for the
// search order) and can be overridden via FOLIO_* environment
// variables. At minimum a token secret and a password pepper must be
// provided.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/config"
	"github.com/rgrenier/folio/pkg/credential"
	"github.com/rgrenier/folio/pkg/debug"
	"github.com/rgrenier/folio/pkg/observability"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/storage/memory"
	"github.com/rgrenier/folio/pkg/storage/postgres"
	"github.com/rgrenier/folio/pkg/token"
	"github.com/rgrenier/folio/pkg/transport"
	httpapi "github.com/rgrenier/folio/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Log level and debug categories come from FOLIO_LOG_LEVEL / FOLIO_DEBUG.
	debug.Init("", "")
	logger := slog.Default()

	hasher, err := credential.New(credential.Config{
		Pepper:     cfg.Security.Pepper,
		SaltLength: cfg.Security.SaltLength,
		Iterations: cfg.Security.Iterations,
		KeyLength:  cfg.Security.KeyLength,
		Digest:     cfg.Security.Digest,
	})
	if err != nil {
		return fmt.Errorf("creating credential hasher: %w", err)
	}

	tokens, err := token.New([]byte(cfg.Security.TokenSecret), cfg.Security.TokenLifetime)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	signins := auth.NewSignInLimiter(cfg.Security.SignInPerMinute, cfg.Security.SignInBurst)

	handlers := httpapi.NewHandlers(store, tokens, hasher, signins, logger)

	mux := http.NewServeMux()
	mux.Handle("/", handlers.Routes())
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(
		transport.Recovery(logger),
		transport.RequestID(),
		transport.Logging(logger),
		transport.Middleware(observability.MetricsMiddleware),
		transport.Middleware(auth.Middleware(tokens)),
	)(mux)

	srv := httpapi.NewServer(handler,
		httpapi.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		httpapi.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		httpapi.WithLogger(logger),
	)

	logger.Info("server starting",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"token_lifetime", cfg.Security.TokenLifetime.String())

	return srv.ListenAndServe()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}
