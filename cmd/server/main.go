package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"lifelink/internal/allocation"
	allocationhandler "lifelink/internal/allocation/handler"
	allocmetrics "lifelink/internal/allocation/metrics"
	"lifelink/internal/audit"
	audithandler "lifelink/internal/audit/handler"
	httpapi "lifelink/internal/http"
	"lifelink/internal/oracle"
	oraclehandler "lifelink/internal/oracle/handler"
	oraclemetrics "lifelink/internal/oracle/metrics"
	"lifelink/internal/platform/config"
	"lifelink/internal/platform/httpserver"
	"lifelink/internal/platform/logger"
	platformredis "lifelink/internal/platform/redis"
	"lifelink/internal/registry"
	registryhandler "lifelink/internal/registry/handler"
	"lifelink/internal/token"
	"lifelink/internal/waitlist"
	waitlisthandler "lifelink/internal/waitlist/handler"
	wlmetrics "lifelink/internal/waitlist/metrics"
)

// main wires stores, services, the oracle release reactor, and the HTTP
// server. Business logic lives in the internal services; this stays a
// dependency graph plus a lifecycle.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("lifelink")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores. Postgres and Redis are optional; without them everything runs
	// on in-memory stores, which is enough for local development.
	var (
		registryStore registry.Store    = registry.NewInMemoryStore()
		waitlistStore waitlist.Store    = waitlist.NewInMemoryStore()
		organStore    allocation.OrganStore
		proposalStore allocation.ProposalStore
		auditStore    audit.Store
		oracleStore   oracle.Store
	)
	organStore = allocation.NewInMemoryOrganStore()
	proposalStore = allocation.NewInMemoryProposalStore()
	auditStore = audit.NewInMemoryStore()
	oracleStore = oracle.NewInMemoryStore()

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if err := applySchemas(ctx, db); err != nil {
			return fmt.Errorf("apply schemas: %w", err)
		}
		registryStore = registry.NewPostgres(db)
		waitlistStore = waitlist.NewPostgres(db)
		organStore = allocation.NewPostgresOrganStore(db)
		proposalStore = allocation.NewPostgresProposalStore(db)
		auditStore = audit.NewPostgres(db)
		log.Info("postgres stores enabled")
	}

	if cfg.RedisURL != "" {
		rdb, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		oracleStore = oracle.NewRedisStore(rdb.Client)
		log.Info("redis oracle store enabled")
	}

	// Audit trail.
	auditOpts := []audit.Option{audit.WithLogger(log)}
	if cfg.AuditBuffer > 0 {
		auditOpts = append(auditOpts, audit.WithAsyncBuffer(cfg.AuditBuffer))
	}
	auditPublisher := audit.NewPublisher(auditStore, auditOpts...)
	defer auditPublisher.Close()

	// Services.
	registrySvc, err := registry.New(registryStore, registry.WithLogger(log))
	if err != nil {
		return fmt.Errorf("registry service: %w", err)
	}
	waitlistSvc, err := waitlist.New(waitlistStore,
		waitlist.WithLogger(log), waitlist.WithMetrics(wlmetrics.New()))
	if err != nil {
		return fmt.Errorf("waitlist service: %w", err)
	}
	oracleSvc, err := oracle.New(oracleStore,
		oracle.WithLogger(log), oracle.WithAudit(auditPublisher),
		oracle.WithMetrics(oraclemetrics.New()))
	if err != nil {
		return fmt.Errorf("oracle service: %w", err)
	}
	allocationSvc, err := allocation.New(organStore, proposalStore, registrySvc, waitlistSvc,
		allocation.WithLogger(log),
		allocation.WithMetrics(allocmetrics.New()),
		allocation.WithAudit(auditPublisher),
		allocation.WithPolicy(cfg.Scoring))
	if err != nil {
		return fmt.Errorf("allocation service: %w", err)
	}

	// Death-verification fulfillments release donors for retrieval.
	reactor, err := allocation.NewReleaseReactor(registrySvc, oracleSvc.Subscribe(),
		allocation.WithReactorLogger(log), allocation.WithReactorAudit(auditPublisher))
	if err != nil {
		return fmt.Errorf("release reactor: %w", err)
	}

	tokenSvc := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		TokenValidator: token.NewMiddlewareAdapter(tokenSvc),
		RequestTimeout: cfg.RequestTimeout,
		Registry:       registryhandler.New(registrySvc, log),
		Waitlist:       waitlisthandler.New(waitlistSvc, log),
		Allocation:     allocationhandler.New(allocationSvc, log),
		Oracle:         oraclehandler.New(oracleSvc, log),
		Audit:          audithandler.New(auditPublisher, log),
	})
	srv := httpserver.New(cfg.HTTPAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := reactor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("release reactor: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func applySchemas(ctx context.Context, db *sql.DB) error {
	for _, schema := range []string{
		registry.Schema,
		waitlist.Schema,
		allocation.OrganSchema,
		allocation.ProposalSchema,
		audit.Schema,
	} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}
