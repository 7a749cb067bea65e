package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripsync-app/consensus-api/internal/adapters/httpapi"
	memidempotency "github.com/tripsync-app/consensus-api/internal/adapters/memory/idempotency"
	memprefrepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/prefrepo"
	memtriprepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/triprepo"
	postgres "github.com/tripsync-app/consensus-api/internal/adapters/postgres"
	pgidempotency "github.com/tripsync-app/consensus-api/internal/adapters/postgres/idempotency"
	pgprefrepo "github.com/tripsync-app/consensus-api/internal/adapters/postgres/prefrepo"
	pgtriprepo "github.com/tripsync-app/consensus-api/internal/adapters/postgres/triprepo"
	"github.com/tripsync-app/consensus-api/internal/app/consensus"
	"github.com/tripsync-app/consensus-api/internal/app/preferences"
	"github.com/tripsync-app/consensus-api/internal/app/trips"
	"github.com/tripsync-app/consensus-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/tripsync-app/consensus-api/internal/platform/clock"
	"github.com/tripsync-app/consensus-api/internal/platform/config"
	"github.com/tripsync-app/consensus-api/internal/platform/logger"
	idempotencyport "github.com/tripsync-app/consensus-api/internal/ports/out/idempotency"
	prefrepoport "github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
	triprepoport "github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

func main() {
	log, err := logger.New(getenv("LOG_MODE", "dev"))
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	port := getenv("PORT", "8080")

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	authMode := getenv("AUTH_MODE", "jwt")
	var authMW func(http.Handler) http.Handler
	switch authMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(getenv("DEV_SUBJECT", "dev|local"))
		log.Warn("running with dev auth; do not expose this deployment")
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatal("invalid auth config", "error", err)
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.System{}

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		tripRepo  triprepoport.Repository
		prefRepo  prefrepoport.Repository
		idemStore idempotencyport.Store
		cleanup   func()
	)

	switch storageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), postgres.PoolOptions{
			URL: os.Getenv("DATABASE_URL"),
		})
		if err != nil {
			log.Fatal("invalid postgres config", "error", err)
		}
		cleanup = pool.Close

		tripRepo = pgtriprepo.NewRepo(pool)
		prefRepo = pgprefrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		tripRepo = memtriprepo.NewRepo()
		prefRepo = memprefrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	tripSvc := trips.NewService(tripRepo, clk)
	prefSvc := preferences.NewService(tripRepo, prefRepo, clk)
	consensusSvc := consensus.NewService(tripRepo, prefRepo)

	api := httpapi.NewServer(tripSvc, prefSvc, consensusSvc, idemStore)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		RequestLogger:  httpapi.NewRequestLogger(log),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", "port", port, "storage", storageBackend, "auth", authMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
