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
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/benefits-service/internal/api/http"
	"github.com/spec-kit/benefits-service/internal/api/http/handlers"
	"github.com/spec-kit/benefits-service/internal/auth"
	"github.com/spec-kit/benefits-service/internal/config"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/observability"
	"github.com/spec-kit/benefits-service/internal/persistence"
	"github.com/spec-kit/benefits-service/internal/repository"
	"github.com/spec-kit/benefits-service/internal/repository/memory"
	"github.com/spec-kit/benefits-service/internal/service"
	"github.com/spec-kit/benefits-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users   repository.UserRepository
	cases   repository.CaseRepository
	history repository.CaseHistoryRepository
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var publisher *events.RedisPublisher
	var marker worker.ReminderMarker
	if rdb.Enabled() {
		publisher = events.NewRedisPublisher(rdb.Client, cfg.Redis.EventsChannel)
		marker = worker.NewRedisMarker(rdb.Client, "benefits:renewal-reminder:")
	}
	notifications := service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notifications, publisher)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: repos.users, Logger: logger})
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPass); err != nil {
		logger.Fatal("failed to create bootstrap admin", zap.Error(err))
	}
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:   repos.cases,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	adminService := service.NewCaseAdminService(service.CaseAdminDependencies{
		CaseRepo:    repos.cases,
		UserRepo:    repos.users,
		HistoryRepo: repos.history,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	renewals := worker.NewRenewalWorker(worker.RenewalWorkerConfig{
		CaseRepo:   repos.cases,
		Dispatcher: dispatcher,
		Marker:     marker,
		Interval:   cfg.Renewal.SweepInterval(),
		Dedupe:     cfg.Renewal.ReminderDedupe(),
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: cfg.App.IsProduction()})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    rdb,
		}),
		Users:          handlers.NewUsersHandler(authService),
		Cases:          handlers.NewCasesHandler(caseService),
		AdminCases:     handlers.NewAdminCasesHandler(adminService),
		AdminUsers:     handlers.NewAdminUsersHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.users),
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	group.Go(func() error {
		return renewals.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		return repositories{
			users:   memory.NewUserRepository(),
			cases:   memory.NewCaseRepository(),
			history: memory.NewCaseHistoryRepository(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		users:   repository.NewUserRepository(pool),
		cases:   repository.NewCaseRepository(pool),
		history: repository.NewCaseHistoryRepository(pool),
	}
}
