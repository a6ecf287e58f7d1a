package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/config"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/middleware"
	"smartnotes/smartnotes/routes"
	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/utils/logger"
	"smartnotes/smartnotes/utils/mailer"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.LogLevel, cfg.LogFile)

	db, err := database.Setup(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feeds := cache.New(cfg)
	if closer, ok := feeds.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Initialize services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	userService := services.NewUserService()
	noteService := services.NewNoteService()
	trashService := services.NewTrashService(cfg.TrashRetentionDays, feeds)
	folderService := services.NewFolderService()
	tagService := services.NewTagService()
	shareService := services.NewShareService(userService, feeds)
	notificationService := services.NewNotificationService(shareService, feeds, time.Duration(cfg.FeedCacheTTLSeconds)*time.Second)
	linkService := services.NewPublicLinkService(cfg.PublicBaseURL)
	searchService := services.NewSearchService()
	storageService := services.NewStorageService(cfg.UploadDir, cfg.MaxUploadMB)
	hub := services.NewNotificationHub()

	// The API keeps working without a broker; events stay in the outbox
	// until a dispatcher can reach NATS.
	brokerClient, err := broker.Connect(cfg.NATSURL)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Broker unavailable, event dispatch and push notifications are disabled")
	} else {
		defer brokerClient.Close()

		eventHandlerService := services.NewEventHandlerService(db, brokerClient, time.Duration(cfg.EventPollIntervalMs)*time.Millisecond)
		go eventHandlerService.Run(ctx)

		messages, unsubscribe, err := brokerClient.Subscribe(broker.AllEventsSubject, 256)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to subscribe notification hub")
		} else {
			defer unsubscribe()
			go hub.Run(ctx, messages)
		}
	}

	if cfg.SMTPHost != "" {
		smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
		reminderService := services.NewReminderService(smtpMailer)
		go reminderService.Run(ctx, db, time.Duration(cfg.ReminderIntervalSeconds)*time.Second)
	} else {
		logger.Log.Info().Msg("SMTP_HOST not set, note reminders are disabled")
	}

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	middleware.Metrics(router, "smartnotes")

	// Unauthenticated routes
	routes.RegisterHealthRoutes(router, db, hub)
	routes.RegisterAuthRoutes(router, db, authService)
	routes.RegisterPublicRoutes(router, db, linkService)
	routes.RegisterWebSocketRoutes(router, authService, hub)
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(authService))
	{
		routes.RegisterUserRoutes(api, db, userService)
		routes.RegisterNoteRoutes(api, db, noteService, trashService)
		routes.RegisterTrashRoutes(api, db, trashService)
		routes.RegisterFolderRoutes(api, db, folderService, tagService)
		routes.RegisterShareRoutes(api, db, shareService, notificationService)
		routes.RegisterLinkRoutes(api, db, linkService)
		routes.RegisterSearchRoutes(api, db, searchService)
		routes.RegisterUploadRoutes(api, storageService, int64(cfg.MaxUploadMB)<<20)
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info().Str("addr", server.Addr).Msg("API server is running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server shutdown failed")
	}
}
