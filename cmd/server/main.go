package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/morning-sprint/backend/api/handler"
	"github.com/morning-sprint/backend/internal/config"
	"github.com/morning-sprint/backend/internal/infrastructure/journal"
	"github.com/morning-sprint/backend/internal/infrastructure/monitor"
	pgInfra "github.com/morning-sprint/backend/internal/infrastructure/postgres"
	redisInfra "github.com/morning-sprint/backend/internal/infrastructure/redis"
	"github.com/morning-sprint/backend/internal/middleware"
	"github.com/morning-sprint/backend/internal/router"
	"github.com/morning-sprint/backend/internal/services"
	"github.com/morning-sprint/backend/internal/services/lifecycle"
	"github.com/morning-sprint/backend/pkg/httpcontext"
	"github.com/morning-sprint/backend/pkg/logger"
	"github.com/morning-sprint/backend/repository/postgres"
	redisRepo "github.com/morning-sprint/backend/repository/redis"
	authUC "github.com/morning-sprint/backend/usecase/auth"
	feedbackUC "github.com/morning-sprint/backend/usecase/feedback"
	importerUC "github.com/morning-sprint/backend/usecase/importer"
	profileUC "github.com/morning-sprint/backend/usecase/profile"
	streakUC "github.com/morning-sprint/backend/usecase/streak"
	taskUC "github.com/morning-sprint/backend/usecase/task"
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

	loc, err := cfg.Location()
	if err != nil {
		zapLogger.Fatal("invalid streak timezone", zap.String("timezone", cfg.Streak.Timezone), zap.Error(err))
	}

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

	journalStore, err := journal.Open(cfg.Journal.Path, "receipts")
	if err != nil {
		zapLogger.Fatal("failed to open import journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sweeper := services.NewJournalSweeper(journalStore, services.SweeperConfig{
		Schedule:      cfg.Journal.SweepSchedule,
		RetentionDays: cfg.Journal.RetentionDays,
	}, zapLogger)
	sweeper.Start()
	manager.Register("journal_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	likeRepo := postgres.NewLikeRepository(pool)
	feedbackRepo := postgres.NewFeedbackRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, likeRepo, zapLogger)
	streakUseCase := streakUC.New(userRepo, taskRepo, loc, cfg.Streak.AdminEmails, zapLogger)
	feedbackUseCase := feedbackUC.New(feedbackRepo, zapLogger)
	importUseCase := importerUC.New(taskRepo, likeRepo, feedbackRepo, journalStore, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Streak:   apiHandler.NewStreakHandler(streakUseCase, ctxAdapter, zapLogger),
		Feedback: apiHandler.NewFeedbackHandler(feedbackUseCase, ctxAdapter, zapLogger),
		Import:   apiHandler.NewImportHandler(importUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
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
