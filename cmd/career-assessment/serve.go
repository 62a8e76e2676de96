package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/cache"
	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/config"
	"github.com/SAP-F-2025/career-assessment-service/internal/handlers"
	"github.com/SAP-F-2025/career-assessment-service/internal/metrics"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories/memory"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/career-assessment-service/internal/services"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
	"github.com/SAP-F-2025/career-assessment-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving (postgres only)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger utils.Logger, migrate bool) error {
	slogger := utils.ToSlogLogger(logger)
	v := validator.New()

	cat, err := catalog.NewEmbeddedSource(v).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded", "version", cat.Version)

	results, closeStore, err := openResultStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheService := cache.NewNoopCache()
	if cfg.CacheEnabled {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		cacheService = cache.NewRedisCache(client, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Catalog:        cat,
		Results:        results,
		Cache:          cacheService,
		ResultCacheTTL: cfg.ResultCacheTTL,
		Publisher:      publisher,
		Metrics:        metrics.MustNewMetrics(prometheus.DefaultRegisterer),
		Validator:      v,
		Logger:         slogger,
		Sessions: services.SessionConfig{
			Capacity:     cfg.SessionCapacity,
			IdleTTL:      cfg.SessionIdleTTL,
			AdvanceUnit:  cfg.AdvanceUnit,
			AdvanceUnits: cfg.AdvanceUnits,
		},
		CareerMatchLimit: cfg.CareerMatchLimit,
	})
	defer serviceManager.Close()

	var auth handlers.Authenticator = handlers.HeaderAuthenticator{}
	if cfg.Auth.Enabled {
		auth = handlers.NewCasdoorAuthenticator(cfg.Auth, logger)
	} else {
		logger.Warn("Authentication disabled, trusting identity headers")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger), utils.ContextLogger(logger), gin.Recovery())
	handlers.NewHandlerManager(serviceManager, auth, prometheus.DefaultGatherer, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openResultStore(ctx context.Context, cfg *config.Config, migrate bool) (repositories.ResultRepository, func(), error) {
	if cfg.StorageDriver == "memory" {
		return memory.NewResultMemory(), func() {}, nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if migrate {
		if err := pkg.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return postgres.NewResultPostgreSQL(db), func() { sqlDB.Close() }, nil
}
