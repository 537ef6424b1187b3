package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"printstore/internal/auth"
	"printstore/internal/config"
	httpctl "printstore/internal/controllers/http"
	"printstore/internal/infra/cache"
	mmysql "printstore/internal/infra/mysql"
	"printstore/internal/infra/rabbitmq"
	"printstore/internal/infra/vnpay"
	"printstore/internal/middlewares"
	mysqlrepo "printstore/internal/repository/mysql"
	"printstore/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	db, err := mmysql.Open(mmysql.Options{
		DSN:             cfg.MySQLDSN(),
		MaxOpenConns:    cfg.MySQLMaxOpen,
		MaxIdleConns:    cfg.MySQLMaxIdle,
		ConnMaxLifetime: cfg.MySQLMaxLifetime,
		ConnMaxIdleTime: cfg.MySQLMaxIdleTime,
		AutoMigrate:     cfg.MySQLAutoMigrate,
	})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient := cache.NewRedisClient(cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer redisClient.Close()
	redisCache := cache.NewRedisCache(redisClient, "printstore")

	var publisher rabbitmq.PublisherInterface = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("RABBITMQ_URL not set, domain events are dropped")
	}

	var gateway services.PaymentGateway
	if cfg.VNPayEnabled() {
		gateway = vnpay.NewClient(vnpay.Config{
			TmnCode:    cfg.VNPayTmnCode,
			HashSecret: cfg.VNPayHashSecret,
			PayURL:     cfg.VNPayPayURL,
			ReturnURL:  cfg.VNPayReturnURL,
			Locale:     cfg.VNPayLocale,
		})
	} else {
		logger.Warn("VNPay not configured, online payment is disabled")
	}

	store := mysqlrepo.NewStore(db, logger)
	engine := services.NewOrderTotalEngine(policy, services.NewVoucherResolver())
	attempts := cfg.OrderUpdateMaxAttempts

	handler := httpctl.NewHandler(httpctl.Services{
		Orders:    services.NewOrderService(store, engine, publisher, logger, attempts),
		Items:     services.NewOrderItemsService(store, engine, publisher, logger, attempts),
		Payments:  services.NewPaymentService(store, publisher, gateway, redisCache, logger, attempts),
		Shipments: services.NewShipmentService(store, publisher, logger, attempts),
		Vouchers:  services.NewVoucherService(store, logger),
		Catalog:   services.NewCatalogService(store.Variants(), redisCache, cfg.QuoteCacheTTL, logger),
		Carts:     services.NewCartService(store, logger),
	}, logger)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Logger(logger))
	r.Use(middlewares.Prometheus())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", healthHandler(db, redisClient))
	handler.RegisterRoutes(r, auth.Middleware(auth.NewTokenParser(cfg.JWTSecret)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting printstore", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "healthy", "mysql": "healthy", "redis": "healthy"}
		code := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["mysql"] = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		if code != http.StatusOK {
			status["status"] = "unhealthy"
		}
		c.JSON(code, status)
	}
}
