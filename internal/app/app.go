// Package app wires the platform's dependencies together and runs the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/config"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/event"
	"github.com/ShaileshM23290/dollup-sub001/internal/gateway"
	gwmock "github.com/ShaileshM23290/dollup-sub001/internal/gateway/mock"
	handler "github.com/ShaileshM23290/dollup-sub001/internal/handler/http"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository/postgres"
	redisrepo "github.com/ShaileshM23290/dollup-sub001/internal/repository/redis"
	"github.com/ShaileshM23290/dollup-sub001/internal/service"
	"github.com/ShaileshM23290/dollup-sub001/migrations"
	"github.com/ShaileshM23290/dollup-sub001/pkg/database"
	"github.com/ShaileshM23290/dollup-sub001/pkg/health"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httpclient"
	pkgkafka "github.com/ShaileshM23290/dollup-sub001/pkg/kafka"
)

// App wires together all dependencies and runs the booking platform server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "dollup"))

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Repositories.
	adminRepo := postgres.NewAdminRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)

	var artistRepo repository.ArtistRepository = postgres.NewArtistRepository(pool)

	// Redis fronts the public artist directory. The platform runs without
	// it; listings just hit Postgres every time.
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		cacheTTL := time.Duration(cfg.ArtistCacheTTLSecs) * time.Second
		artistRepo = redisrepo.NewArtistCache(artistRepo, redisClient, cacheTTL, logger)
		logger.Info("artist directory cache enabled",
			slog.String("addr", fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)),
			slog.Duration("ttl", cacheTTL),
		)
	}

	// Kafka producer and domain event publisher.
	var kafkaProducer *pkgkafka.Producer
	var eventProducer *event.Producer
	if cfg.KafkaEnabled {
		kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(kafkaProducer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Payment gateway.
	keySecret := cfg.GatewayKeySecret
	var gw gateway.Gateway
	if cfg.GatewayProvider == "mock" {
		if keySecret == "" {
			keySecret = "mock_key_secret"
		}
		gw = gwmock.NewGateway(keySecret)
		logger.Warn("using in-process mock payment gateway")
	} else {
		client := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("razorpay"), logger)
		gw, err = gateway.NewRazorpay(gateway.RazorpayConfig{
			KeyID:     cfg.GatewayKeyID,
			KeySecret: cfg.GatewayKeySecret,
			BaseURL:   cfg.GatewayBaseURL,
		}, cbClient, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init payment gateway: %w", err)
		}
	}

	// Token codecs, one per actor kind.
	adminCodec, err := auth.NewTokenCodec(domain.RoleAdmin, cfg.DeploymentSecret, auth.AdminTokenExpiry)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init admin token codec: %w", err)
	}
	artistCodec, err := auth.NewTokenCodec(domain.RoleArtist, cfg.DeploymentSecret, auth.ArtistTokenExpiry)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init artist token codec: %w", err)
	}
	customerCodec, err := auth.NewTokenCodec(domain.RoleCustomer, cfg.DeploymentSecret, auth.CustomerTokenExpiry)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init customer token codec: %w", err)
	}

	// Services.
	authService := service.NewAuthService(adminRepo, artistRepo, customerRepo, service.Codecs{
		Admin:    adminCodec,
		Artist:   artistCodec,
		Customer: customerCodec,
	}, logger)
	bookingService := service.NewBookingService(bookingRepo, artistRepo, eventProducer, logger)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, gw, keySecret, eventProducer, logger)
	adminService := service.NewAdminService(artistRepo, customerRepo, logger)

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := authService.SeedAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword, cfg.SeedAdminName); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	// Health checks. Redis and Kafka degrade service but do not stop it.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if kafkaProducer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return kafkaProducer.Ping(ctx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP layer.
	secureCookies := cfg.Environment != "development"
	gate := handler.NewAuthGate(adminRepo, artistRepo, customerRepo, adminCodec, artistCodec, customerCodec, logger)
	router := handler.NewRouter(handler.RouterConfig{
		Auth:    handler.NewAuthHandler(authService, secureCookies, logger),
		Booking: handler.NewBookingHandler(bookingService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
		Admin:   handler.NewAdminHandler(adminService, logger),
		Gate:    gate,
		Health:  healthHandler,
		Logger:  logger,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		LoginRPS: cfg.LoginRPS,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   kafkaProducer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: the HTTP server drains in-flight
// requests first, then the Kafka producer, Redis client, and Postgres pool close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
