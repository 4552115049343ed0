package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fieldforge/servicedesk/pkg/api"
	"github.com/fieldforge/servicedesk/pkg/audit"
	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/config"
	"github.com/fieldforge/servicedesk/pkg/gate"
	"github.com/fieldforge/servicedesk/pkg/membership"
	"github.com/fieldforge/servicedesk/pkg/observability"
	"github.com/fieldforge/servicedesk/pkg/rbac"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid redis URL: %v", err)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	tenantStore := tenant.NewPostgresStore(db)
	membershipStore := membership.NewPostgresStore(db)

	audits, err := audit.NewPostgresRecorder(db)
	if err != nil {
		log.Fatalf("Failed to initialize audit recorder: %v", err)
	}

	deps := api.Deps{
		Sessions: auth.NewRedisSessionStore(
			redisClient, []byte(cfg.Session.SigningKey),
			cfg.Session.CookieName, cfg.Session.TTL,
		),
		Verifier: membershipStore,
		Tenants:  tenantStore,
		Resolver: tenant.NewResolver(cfg.Platform.TLD, cfg.Platform.AdminWorkspace),
		Roles:    membership.NewRoleResolver(membershipStore, cfg.Platform.OperatorTenantID, logger),
		Gate:     gate.New(tenantStore, logger, metrics),
		Checker:  rbac.NewChecker(),
		Audits:   audits,
		Logger:   logger,
		Metrics:  metrics,
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.NewServer(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	health := observability.NewHealthChecker(db, redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Health server failed: %v", err)
		}
	}()

	go func() {
		logger.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	if err := healthServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("health server shutdown failed")
	}
}
