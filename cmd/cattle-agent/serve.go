package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"
	"github.com/Ghawri/Cattle-insurance-agent/internal/database/minio"
	"github.com/Ghawri/Cattle-insurance-agent/internal/database/postgres"
	redisdb "github.com/Ghawri/Cattle-insurance-agent/internal/database/redis"
	"github.com/Ghawri/Cattle-insurance-agent/internal/event"
	"github.com/Ghawri/Cattle-insurance-agent/internal/handlers"
	"github.com/Ghawri/Cattle-insurance-agent/internal/metrics"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"
	"github.com/Ghawri/Cattle-insurance-agent/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, loadConfig())
	},
}

func serve(ctx context.Context, cfg *config.ServiceConfig) error {
	logger, logFile := setupLogging(cfg)
	defer logFile.Close()

	logger.Info().
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Str("env", string(cfg.Env)).
		Msg("starting cattle-agent")

	if cfg.AuthCfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		cfg.AuthCfg.JWTSecret = secret
		logger.Warn().Msg("JWT_SECRET is empty, using a random secret; tokens will not survive a restart")
	}

	db, err := postgres.Connect(ctx, cfg.PostgresCfg, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := redisdb.NewRedisClient(ctx, cfg.RedisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()

	objects, err := minio.NewMinioClient(ctx, cfg.MinioCfg, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("minio: %w", err)
	}

	healthChecks := map[string]handlers.HealthCheck{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.RabbitMQCfg.Enabled {
		conn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg, logger)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer conn.Close()

		claimPublisher, err := event.NewClaimEventPublisher(conn, logger)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		publisher = claimPublisher
		healthChecks["rabbitmq"] = func(context.Context) error {
			if !claimPublisher.HealthCheck().IsHealthy {
				return errors.New("connection closed")
			}
			return nil
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewPrometheusMetrics(registry)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	limiterStore, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix:   "upload_limit",
		MaxRetry: 3,
	})
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	store := repository.NewDocumentStore(redisClient)
	farmerRepo := repository.NewFarmerRepository(store)
	policyRepo := repository.NewPolicyRepository(store)

	identity := services.NewIdentityService(
		repository.NewAgentRepository(db),
		repository.NewSessionRepository(redisClient),
		services.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.AccessTTL),
		logger,
	)
	if _, err := identity.EnsureDemoAgent(ctx, demoAgent(cfg)); err != nil {
		return fmt.Errorf("demo agent: %w", err)
	}

	claims := services.NewClaimService(
		repository.NewClaimRepository(store),
		policyRepo,
		farmerRepo,
		repository.NewUploadGrantRepository(store),
		objects,
		services.RandomScorer{},
		publisher,
		m,
		services.ClaimServiceConfig{
			UploadGrantTTL:   cfg.ClaimCfg.UploadGrantTTL,
			SignedURLTTL:     cfg.MinioCfg.SignedURLTTL,
			StrictReferences: cfg.ClaimCfg.StrictReferences,
		},
		logger,
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Env:              cfg.Env,
		APIPrefix:        cfg.APIPrefix,
		CORSOrigins:      cfg.CORSOrigins,
		UploadRateLimit:  cfg.ClaimCfg.UploadRateLimit,
		UploadRatePeriod: cfg.ClaimCfg.UploadRatePeriod,
		MaxUploadBytes:   cfg.ClaimCfg.MaxUploadMB << 20,
		LimiterStore:     limiterStore,
	}, handlers.Dependencies{
		Identity:     identity,
		Farmers:      services.NewFarmerService(farmerRepo, logger),
		Policies:     services.NewPolicyService(policyRepo, farmerRepo, cfg.ClaimCfg.StrictReferences, logger),
		Claims:       claims,
		HealthChecks: healthChecks,
		Metrics:      m,
		Gatherer:     registry,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("prefix", cfg.APIPrefix).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func demoAgent(cfg *config.ServiceConfig) services.DemoAgent {
	return services.DemoAgent{
		Username:  cfg.AuthCfg.DemoUsername,
		Password:  cfg.AuthCfg.DemoPassword,
		Name:      "Demo Agent",
		Phone:     "+91 9876543210",
		AgentCode: "AG001",
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

