package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"enspass/internal/approval"
	approvalhandler "enspass/internal/approval/handler"
	approvalmetrics "enspass/internal/approval/metrics"
	"enspass/internal/ens"
	"enspass/internal/payment"
	"enspass/internal/payment/ledger"
	"enspass/internal/platform/config"
	"enspass/internal/platform/httpserver"
	"enspass/internal/platform/logger"
	platformredis "enspass/internal/platform/redis"
	"enspass/internal/relay"
	httptransport "enspass/internal/transport/http"
	"enspass/internal/wyre"
	"enspass/pkg/platform/audit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	checks := map[string]httptransport.HealthChecker{}

	// Reservation ledger: PostgreSQL when configured, in-memory otherwise.
	var ledgerStore ledger.Store
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("cannot open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := ledger.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("cannot prepare ledger schema", "error", err)
			os.Exit(1)
		}
		ledgerStore = pg
		checks["postgres"] = dbHealth{db}
	} else {
		log.Warn("POSTGRES_URL not set, using in-memory ledger")
		ledgerStore = ledger.NewInMemoryStore()
	}

	// Registry lookup cache: Redis when configured, in-process otherwise.
	var registryCache ens.CacheStore = ens.NewInMemoryCache()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("cannot connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		registryCache = ens.NewRedisCache(redisClient.Client)
		checks["redis"] = redisClient
	}

	oracle, err := ens.NewRPCOracle(cfg.Chain, log)
	if err != nil {
		log.Error("cannot build registry oracle", "error", err)
		os.Exit(1)
	}
	cachedOracle := ens.NewCachedOracle(oracle, registryCache, cfg.Chain.RegistryCacheTTL, log)

	signer, err := approval.NewSigner(cfg.Signer, cfg.Chain.ChainID)
	if err != nil {
		log.Error("cannot load approval key", "error", err)
		os.Exit(1)
	}
	log.Info("approval signer ready", "address", signer.Address().String())

	// Audit events go to the in-memory store, plus Kafka when configured.
	var auditSink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("cannot connect audit sink", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
	}
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), auditSink, log)

	provider := wyre.NewRESTClient(cfg.Wyre, log)
	reconciler := payment.NewReconciler(provider, ledgerStore, cfg.Wyre, log)
	validator := relay.NewValidator(cfg.Chain.RegistrarAddress, log)

	service := approval.NewService(
		cachedOracle,
		validator,
		reconciler,
		signer,
		auditor,
		approvalmetrics.New(),
		log,
	)

	router := httptransport.NewRouter(approvalhandler.New(service, log), log, checks)
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting enspass", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// dbHealth adapts *sql.DB to the router's health check interface.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
