package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/locagest/locagest/internal/agents"
	"github.com/locagest/locagest/internal/app"
	"github.com/locagest/locagest/internal/auth"
	"github.com/locagest/locagest/internal/authz"
	"github.com/locagest/locagest/internal/catalog/brands"
	"github.com/locagest/locagest/internal/catalog/categories"
	"github.com/locagest/locagest/internal/catalog/products"
	"github.com/locagest/locagest/internal/catalog/units"
	"github.com/locagest/locagest/internal/intake"
	"github.com/locagest/locagest/internal/navigation"
	"github.com/locagest/locagest/internal/notify"
	"github.com/locagest/locagest/internal/observability"
	"github.com/locagest/locagest/internal/platform/cache"
	"github.com/locagest/locagest/internal/platform/db"
	"github.com/locagest/locagest/internal/rentals"
	"github.com/locagest/locagest/internal/shared"
	"github.com/locagest/locagest/internal/suppliers"
	"github.com/locagest/locagest/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if err := navigation.Verify(navigation.Tree()); err != nil {
		logger.Error("navigation tree", slog.Any("error", err))
		os.Exit(1)
	}

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

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error("create upload dir", slog.Any("error", err))
		os.Exit(1)
	}

	sessionManager := shared.NewSessionManager(redisClient, "locagest_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	agentsRepo := agents.NewRepository(pool)
	agentsService := agents.NewService(agentsRepo)

	authzService := authz.NewService(agentsRepo)
	authzMiddleware := authz.Middleware{Service: authzService, Logger: logger}
	authzHandler := authz.NewHandler(authzMiddleware)

	sessionStore := auth.NewSessionStore(pool)
	authService := auth.NewService(agentsRepo, sessionStore)
	authHandler := auth.NewHandler(logger, authService, agentsService, sessionManager, csrfManager)

	agentsHandler := agents.NewHandler(logger, agentsService, authzMiddleware)
	navigationHandler := navigation.NewHandler()

	notifyService := notify.NewService(redisClient, logger, agentsRepo)
	notifyHandler := notify.NewHandler(logger, notifyService, authzMiddleware)

	categoriesService := categories.NewService(categories.NewRepository(pool))
	categoriesHandler := categories.NewHandler(logger, categoriesService, authzMiddleware)
	brandsService := brands.NewService(brands.NewRepository(pool))
	brandsHandler := brands.NewHandler(logger, brandsService, authzMiddleware)
	unitsService := units.NewService(units.NewRepository(pool))
	unitsHandler := units.NewHandler(logger, unitsService, authzMiddleware)
	productsService := products.NewService(products.NewRepository(pool))
	productsHandler := products.NewHandler(logger, productsService, authzMiddleware, cfg.UploadDir)

	rentalsService := rentals.NewService(rentals.NewRepository(pool), notifyService, logger)
	rentalsHandler := rentals.NewHandler(logger, rentalsService, authzMiddleware)

	ocrClient := intake.NewOCRClient(cfg.OCRURL, cfg.OCRAPIKey, cfg.OCRTimeout)
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))
	suppliersHandler := suppliers.NewHandler(logger, suppliersService, ocrClient, jobsClient, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		Authz:             authzMiddleware,
		AuthHandler:       authHandler,
		AuthzHandler:      authzHandler,
		NavigationHandler: navigationHandler,
		ProductsHandler:   productsHandler,
		CategoriesHandler: categoriesHandler,
		BrandsHandler:     brandsHandler,
		UnitsHandler:      unitsHandler,
		SuppliersHandler:  suppliersHandler,
		RentalsHandler:    rentalsHandler,
		NotifyHandler:     notifyHandler,
		AgentsHandler:     agentsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
