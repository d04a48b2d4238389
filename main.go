package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"piercing-studio-site/config"
	"piercing-studio-site/routes"
	"piercing-studio-site/services"
	"piercing-studio-site/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := config.NewMetrics(reg)

	api := services.NewStudioClient(
		cfg.BackendURL,
		cfg.UpstreamTimeout,
		services.StudioBreakers{
			Reads:  config.NewCircuitBreaker("studio-api-reads", logger),
			Submit: config.NewCircuitBreaker("studio-api-release-form", logger),
		},
		metrics.UpstreamRequests,
	)

	store, closeStore, err := openSessionStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []services.SessionManagerOption{
		services.WithSessionCounters(metrics.SessionsMounted, metrics.SessionsPruned),
	}
	if cfg.SMSEnabled() {
		opts = append(opts, services.WithNotifier(services.NewSMSNotifier(
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.StudioNotifyPhone, logger)))
		logger.Info("studio SMS notifications enabled")
	}
	sessions := services.NewSessionManager(store, api, cfg.SessionTTL, logger, opts...)

	sweeper, err := services.StartSessionSweeper(cfg.SessionSweepSchedule, sessions, logger)
	if err != nil {
		return fmt.Errorf("session sweeper: %w", err)
	}
	defer func() { <-sweeper.Stop().Done() }()

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warn("SESSION_SECRET not set, generating one; sessions will not survive a restart")
		secret = utils.GenerateSessionSecret()
	}

	r, err := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: reg,
		API:      api,
		Sessions: sessions,
		Tokens:   utils.NewSessionTokens(secret, cfg.SessionTTL),
		Version:  getVersion(),
	})
	if err != nil {
		return err
	}
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openSessionStore(cfg config.Config, logger *zap.Logger) (services.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return services.NewMemoryStore(), func() {}, nil

	case config.SessionStorePostgres:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		store, err := services.NewSQLSessionStore(db)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate sessions: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		logger.Info("using postgres session store")
		return store, closeFn, nil

	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
		return services.NewRedisSessionStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
}

func getVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "unknown"
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
