package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vacq/booking-service/internal/api/http"
	"github.com/vacq/booking-service/internal/api/http/handlers"
	"github.com/vacq/booking-service/internal/auth"
	"github.com/vacq/booking-service/internal/config"
	"github.com/vacq/booking-service/internal/events"
	"github.com/vacq/booking-service/internal/observability"
	"github.com/vacq/booking-service/internal/persistence"
	"github.com/vacq/booking-service/internal/repository"
	"github.com/vacq/booking-service/internal/service"
	"github.com/vacq/booking-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.SQLDB(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo      repository.UserRepository
		hospitalRepo  repository.HospitalRepository
		vacCenterRepo repository.VacCenterRepository
	)
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		hospitalRepo = repository.NewHospitalRepository(pg.PoolHandle())
		vacCenterRepo = repository.NewVacCenterRepository(pg.SQLDB())
	} else {
		userRepo = repository.NewMemoryUserRepository()
		hospitalRepo = repository.NewMemoryHospitalRepository()
		vacCenterRepo = repository.NewVacCenterRepository(nil)
	}
	if redis.Client != nil {
		hospitalRepo = repository.NewCachedHospitalRepository(hospitalRepo, redis.Client, cfg.Redis.CacheTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(dispatcher, logger, cfg)

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	hospitalService := service.NewHospitalService(hospitalRepo, vacCenterRepo)

	metrics := observability.NewMetrics()
	guard := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Auth: handlers.NewAuthHandler(authService, handlers.AuthHandlerOptions{
			CookieSecure:     cfg.Auth.CookieSecure,
			ExposeResetToken: cfg.App.Env == "development",
		}),
		Hospitals: handlers.NewHospitalsHandler(hospitalService),
		Guard:     guard,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
