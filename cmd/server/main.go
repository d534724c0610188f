package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/marketplace/internal/cache"
	"github.com/Skotchmaster/marketplace/internal/config"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/httpserver"
	"github.com/Skotchmaster/marketplace/internal/jobs"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/search"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/store"
	pkgdb "github.com/Skotchmaster/marketplace/pkg/db"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	loggingmw "github.com/Skotchmaster/marketplace/pkg/middleware/logging"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DB.URL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	st := store.New(db)

	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		prod, err := events.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publisher = prod
	}

	var productCache cache.ProductCache = cache.Noop{}
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		productCache = cache.NewRedis(rdb, cfg.Redis.TTL)
	}

	var indexer search.Indexer = search.Noop{}
	if cfg.Search.Enabled() {
		client, err := search.NewClient(search.Config{
			URL:      cfg.Search.URL,
			Username: cfg.Search.User,
			Password: cfg.Search.Password,
			Index:    cfg.Search.Index,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		indexer = search.NewElastic(client, cfg.Search.Index)
	}

	m := metrics.New()
	issuer := tokens.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	deps := service.Deps{Cache: productCache, Events: publisher, Recorder: service.LogRecorder{Metrics: m}}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	httpserver.Register(e, &httpserver.Deps{
		DB:       db,
		Metrics:  m,
		Verifier: issuer,
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users: st.Users, Tokens: issuer, Deps: deps,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Services: st.Services, Products: st.Products, Index: indexer, Deps: deps,
		}},
		BookingHandler: &httpserver.BookingHTTP{Svc: &service.BookingService{
			Bookings: st.Bookings, Deps: deps,
		}},
		PurchaseHandler: &httpserver.PurchaseHTTP{Svc: &service.PurchaseService{
			Products: st.Products, Purchases: st.Purchases, Deps: deps,
		}},
		ReviewHandler: &httpserver.ReviewHTTP{Svc: &service.ReviewService{
			Reviews: st.Reviews, Services: st.Services, Products: st.Products, Deps: deps,
		}},
	})

	var sched *jobs.Scheduler
	if cfg.Reconcile.Enabled() {
		r := &jobs.Reconciler{Store: st, Cache: productCache, Index: indexer, Metrics: m}
		sched, err = jobs.NewScheduler(cfg.Reconcile.Schedule, jobs.ReconcileTask(r), logger)
		if err != nil {
			log.Fatalf("reconcile job: %v", err)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           e,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
