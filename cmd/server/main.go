package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkspotter-admin/internal/api"
	"parkspotter-admin/internal/backend"
	"parkspotter-admin/internal/config"
	"parkspotter-admin/internal/db"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/logger"
	"parkspotter-admin/internal/repository"
	"parkspotter-admin/internal/service"
	"parkspotter-admin/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.String("env", cfg.Env), slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn("using the development JWT secret; set JWT_SECRET before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to DB", slog.Any("error", err))
			os.Exit(1)
		}
		defer database.Close()
	}

	store, prune, err := sessionStore(ctx, cfg, database)
	if err != nil {
		log.Error("failed to set up session store", slog.String("store", cfg.SessionStore), slog.Any("error", err))
		os.Exit(1)
	}

	var (
		mgmtRepo   repository.ManagementRepository
		noticeRepo repository.NoticeRepository
	)
	if database != nil {
		mgmtRepo = repository.NewManagementRepository(database)
		noticeRepo = repository.NewJobRepository(database)
	} else {
		mgmtRepo = repository.NewMemoryManagementRepository(repository.DefaultManagementItems...)
		noticeRepo = repository.NewMemoryNoticeRepository()
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendAuthScheme, cfg.BackendTimeout)
	res := service.NewResources(client, log)
	views := listing.NewViewStore()
	manager := session.NewManager(store, session.NewSigner(cfg.JWTSecret), cfg.SessionTTL)

	sender := service.NewSenderService(service.NewNotifyService(service.NotifyConfig{
		SendGridAPIKey:    cfg.SendGridAPIKey,
		SendGridFromEmail: cfg.SendGridFromEmail,
		SendGridFromName:  cfg.SendGridFromName,
		TwilioAccountSID:  cfg.TwilioAccountSID,
		TwilioAuthToken:   cfg.TwilioAuthToken,
		TwilioFromNumber:  cfg.TwilioFromNumber,
	}))
	dash := service.NewDashboardService(res, service.MapSettings{Center: cfg.MapCenter, Token: cfg.MapboxToken}, log)
	hub := api.NewHub(dash, cfg.CORSOrigins)

	router := api.NewRouter(api.Handlers{
		Auth:       api.NewAuthHandler(service.NewAuthService(client, manager, views, res)),
		Dashboard:  api.NewDashboardHandler(dash, views),
		Users:      api.NewUserHandler(service.NewActivationService(client, res, sender)),
		Plans:      api.NewPlanHandler(service.NewPlanService(client, res)),
		Management: api.NewManagementHandler(service.NewManagementService(mgmtRepo), views),
		Hub:        hub,
	}, manager)

	jobs := service.NewJobService(service.JobConfig{
		AlertEmail:    cfg.AlertEmail,
		ServiceToken:  cfg.BackendServiceToken,
		ExpirySpec:    cfg.ExpiryCron,
		RefreshSpec:   cfg.RefreshCron,
		PruneSessions: prune,
		Views:         views,
		SessionTTL:    cfg.SessionTTL,
	}, dash, noticeRepo, sender, hub, log)
	scheduler, err := jobs.Scheduler()
	if err != nil {
		log.Error("failed to schedule jobs", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	handler := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", api.RequestIDHeader}),
		handlers.AllowCredentials(),
	)(router)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)
	handler = handlers.LoggingHandler(os.Stdout, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}

	go func() {
		log.Info("metrics server running", slog.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	go func() {
		log.Info("server running", slog.String("port", cfg.Port), slog.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("error", err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown", slog.Any("error", err))
	}
}

// sessionStore picks the store named by SESSION_STORE and the matching prune job.
func sessionStore(ctx context.Context, cfg config.Config, database *sql.DB) (session.Store, service.SessionPruner, error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		// Redis expires keys itself.
		return session.NewRedisStore(client), nil, nil
	case "postgres":
		if database == nil {
			return nil, nil, errors.New("SESSION_STORE=postgres needs DATABASE_URL")
		}
		repo := repository.NewSessionRepository(database)
		return repo, repo.DeleteExpired, nil
	default:
		mem := session.NewMemoryStore()
		return mem, func(context.Context) (int64, error) { return int64(mem.Prune()), nil }, nil
	}
}
