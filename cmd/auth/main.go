// Command auth runs the authentication service: registration, login,
// logout, token lifecycle, user lookup, and the user audit log.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"ipvault/internal/auth/handler"
	"ipvault/internal/auth/metrics"
	"ipvault/internal/auth/service"
	eventstore "ipvault/internal/auth/store/event"
	revocationstore "ipvault/internal/auth/store/revocation"
	userstore "ipvault/internal/auth/store/user"
	"ipvault/internal/auth/token"
	"ipvault/internal/platform/config"
	"ipvault/internal/platform/database"
	"ipvault/internal/platform/health"
	"ipvault/internal/platform/httpserver"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/middleware"
	"ipvault/internal/seeder"
	"ipvault/migrations"
)

func main() {
	log := logger.New("auth")

	cfg, err := config.AuthFromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		users       service.UserStore
		revocations service.RevocationStore
		events      service.EventStore
	)
	if db != nil {
		defer db.Close()
		if err := database.Migrate(context.Background(), db, migrations.FS, "0001_auth.sql"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		users = userstore.NewPostgres(db)
		revocations = revocationstore.NewPostgres(db)
		events = eventstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		users = userstore.NewInMemory()
		revocations = revocationstore.NewInMemory()
		events = eventstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seeder.SeedUserCatalog(ctx, events, log); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	if err := seeder.SeedSuperuser(ctx, users, cfg.SuperuserUsername, cfg.SuperuserPassword, log); err != nil {
		log.Error("superuser bootstrap failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, revocations)
	svc := service.New(users, revocations, events, tokens,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	probes := health.New("auth")
	if db != nil {
		probes.RegisterCheck("database", db.Ping)
	}
	probes.Register(router)
	handler.New(svc, log).Register(router)

	apiServer := httpserver.New(cfg.Addr, router)

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())
	metricsServer := httpserver.New(cfg.MetricsAddr, metricsRouter)

	log.Info("starting auth service", "addr", cfg.Addr, "metrics_addr", cfg.MetricsAddr)
	if err := run(ctx, apiServer, metricsServer); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("auth service stopped")
}

// run serves both listeners until the context is cancelled, then shuts them
// down gracefully.
func run(ctx context.Context, servers ...*http.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
