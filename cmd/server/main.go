package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskforge/backend/api/handler"
	"github.com/taskforge/backend/internal/config"
	"github.com/taskforge/backend/internal/infrastructure/auditlog"
	"github.com/taskforge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskforge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskforge/backend/internal/infrastructure/redis"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/internal/router"
	"github.com/taskforge/backend/internal/services"
	"github.com/taskforge/backend/internal/services/lifecycle"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/pkg/token"
	"github.com/taskforge/backend/repository/postgres"
	redisRepo "github.com/taskforge/backend/repository/redis"
	authUC "github.com/taskforge/backend/usecase/auth"
	taskUC "github.com/taskforge/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	auditStore, err := auditlog.Open(cfg.Audit.Path)
	if err != nil {
		zapLogger.Fatal("failed to open audit log", zap.Error(err))
	}
	manager.Register("audit_log", func(ctx context.Context) error {
		return auditStore.Close()
	})

	mon := monitor.New(pool, redisClient, auditStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sweeper := services.NewRetentionSweeper(auditStore, cfg.Audit.Retention, cfg.Audit.SweepInterval, zapLogger)
	sweeper.Start()
	manager.Register("retention_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	countCache := redisRepo.NewCountCache(redisClient, cfg.Redis.CountTTL)

	tokenService := token.NewService(token.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
	})

	authUseCase := authUC.New(userRepo, tokenService, zapLogger)
	taskUseCase := taskUC.New(taskRepo, countCache, auditStore, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(authUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(tokenService, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
