// Command console serves the KickZone admin web console.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kickzone/kickzone-admin/internal/analytics"
	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/app"
	"github.com/kickzone/kickzone-admin/internal/auth"
	"github.com/kickzone/kickzone-admin/internal/categories"
	"github.com/kickzone/kickzone-admin/internal/events"
	"github.com/kickzone/kickzone-admin/internal/grounds"
	"github.com/kickzone/kickzone-admin/internal/managers"
	"github.com/kickzone/kickzone-admin/internal/media"
	"github.com/kickzone/kickzone-admin/internal/notifications"
	"github.com/kickzone/kickzone-admin/internal/observability"
	"github.com/kickzone/kickzone-admin/internal/platform/cache"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/internal/staff"
	"github.com/kickzone/kickzone-admin/internal/users"
	"github.com/kickzone/kickzone-admin/internal/view"
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
	slog.SetDefault(logger)

	redisClient, err := cache.Open(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	responder := view.NewResponder(templates, csrfManager, logger).WithUploadLimit(cfg.UploadMaxBytes)
	guard := rbac.Middleware{Logger: logger.With("component", "rbac")}

	analyticsLogger := logger.With("component", "analytics")
	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout,
		apiclient.WithLogger(logger.With("component", "apiclient")),
		apiclient.WithObserver(metrics),
		apiclient.WithMutationHook(analytics.InvalidationHook(analyticsCache, analyticsLogger)),
	)

	usersService := users.NewService(client)
	authService := auth.NewService(client, cfg.AllowStaffLogin)
	analyticsService := analytics.NewService(client, analyticsCache, analyticsLogger)
	groundsService := grounds.NewService(client)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		RBACMiddleware: guard,
		Metrics:        metrics,
		Health: func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient)
		},

		AuthHandler:          auth.NewHandler(logger, authService, usersService, sessionManager, responder, cfg.LoginRateLimit),
		DashboardHandler:     analytics.NewHandler(logger, analyticsService, responder, guard),
		UsersHandler:         users.NewHandler(logger, usersService, responder, guard),
		ManagersHandler:      managers.NewHandler(logger, managers.NewService(client), responder, guard),
		StaffHandler:         staff.NewHandler(logger, staff.NewService(client), responder, guard),
		CategoriesHandler:    categories.NewHandler(logger, categories.NewService(client), responder, guard),
		GroundsHandler:       grounds.NewHandler(logger, groundsService, responder, guard),
		EventsHandler:        events.NewHandler(logger, events.NewService(client), responder, guard),
		NotificationsHandler: notifications.NewHandler(logger, notifications.NewService(client), responder, guard),
		MediaHandler:         media.NewHandler(logger, media.NewService(client)),
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
