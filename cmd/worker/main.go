package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/locagest/locagest/internal/agents"
	"github.com/locagest/locagest/internal/app"
	"github.com/locagest/locagest/internal/notify"
	"github.com/locagest/locagest/internal/platform/cache"
	"github.com/locagest/locagest/internal/platform/db"
	"github.com/locagest/locagest/internal/rentals"
	"github.com/locagest/locagest/internal/suppliers"
	"github.com/locagest/locagest/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	agentsRepo := agents.NewRepository(pool)
	notifyService := notify.NewService(redisClient, logger, agentsRepo)
	rentalsService := rentals.NewService(rentals.NewRepository(pool), notifyService, logger)
	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))

	reminderJob := jobs.NewRentalReminderJob(rentalsService, logger)
	importJob := jobs.NewSupplierImportJob(suppliersService, logger)

	reminderTask, err := jobs.NewRentalReminderTask(jobs.RentalReminderPayload{
		OlderThanHours: int(cfg.RentalReminderAge.Hours()),
	})
	if err != nil {
		logger.Error("build reminder task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRentalReminder, Handler: reminderJob.Handle},
			{Type: jobs.TaskSupplierImport, Handler: importJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 8 * * *", Task: reminderTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
