package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"clubsphere/internal/audit"
	"clubsphere/internal/audit/publisher"
	auditmemory "clubsphere/internal/audit/store/memory"
	auditpostgres "clubsphere/internal/audit/store/postgres"
	auditworker "clubsphere/internal/audit/worker"
	"clubsphere/internal/club"
	clubhandler "clubsphere/internal/club/handler"
	"clubsphere/internal/event"
	eventhandler "clubsphere/internal/event/handler"
	"clubsphere/internal/identity"
	"clubsphere/internal/payment/checkout"
	"clubsphere/internal/payment/gateway"
	paymenthandler "clubsphere/internal/payment/handler"
	"clubsphere/internal/payment/reconcile"
	paymentstore "clubsphere/internal/payment/store"
	"clubsphere/internal/platform/config"
	"clubsphere/internal/platform/httpserver"
	"clubsphere/internal/platform/logger"
	"clubsphere/internal/platform/metrics"
	platformmongo "clubsphere/internal/platform/mongo"
	platformredis "clubsphere/internal/platform/redis"
	httptransport "clubsphere/internal/transport/http"
	"clubsphere/internal/user"
	userhandler "clubsphere/internal/user/handler"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := platformmongo.New(ctx, cfg)
	if err != nil {
		log.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Close(context.Background())
	db := mongoClient.Database()

	m := metrics.New()

	userStore := user.NewMongoStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Error("user index setup failed", "error", err)
		os.Exit(1)
	}
	ledger := paymentstore.NewMongoStore(db)
	if err := ledger.EnsureIndexes(ctx); err != nil {
		log.Error("ledger index setup failed", "error", err)
		os.Exit(1)
	}
	clubStore := club.NewMongoStore(db)
	eventStore := event.NewMongoStore(db)

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}

	auditSvc := audit.NewService(m, log)
	var auditStore audit.Store
	if cfg.AuditPostgresDSN != "" {
		pg, err := sql.Open("postgres", cfg.AuditPostgresDSN)
		if err != nil {
			log.Error("audit postgres open failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.PingContext(ctx); err != nil {
			log.Error("audit postgres ping failed", "error", err)
			os.Exit(1)
		}
		auditStore = auditpostgres.New(pg)
	} else {
		auditStore = auditmemory.New()
	}
	var auditPub audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := publisher.NewKafka(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		auditPub = kafkaPub
	}
	worker := auditworker.New(auditStore, auditPub, auditSvc.Inbox(), log)

	clubSvc := club.NewService(clubStore)
	eventSvc := event.NewService(eventStore)
	userSvc := user.NewService(userStore)

	stripeGW := gateway.NewStripeGateway(cfg.StripeSecretKey)
	checkoutSvc := checkout.NewService(stripeGW, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, auditSvc, m, log)
	resultCache := reconcile.NewResultCache(redisClient, log)
	reconcileSvc := reconcile.NewService(stripeGW, ledger, clubSvc, eventSvc, resultCache, auditSvc, m, log)

	validator := identity.NewValidator(cfg.JWTSigningKey)

	router := httptransport.NewRouter(log, m,
		clubhandler.New(clubSvc, validator, userSvc, log),
		eventhandler.New(eventSvc, validator, userSvc, log),
		userhandler.New(userSvc, validator, log),
		paymenthandler.New(checkoutSvc, reconcileSvc, ledger, validator, userSvc, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
