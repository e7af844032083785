package main

import (
	"fmt"
	"os"

	"citizen-portal/internal/auth"
	"citizen-portal/internal/config"
	"citizen-portal/internal/db"
	httphandler "citizen-portal/internal/http"
	"citizen-portal/internal/http/middleware"
	"citizen-portal/internal/logger"
	"citizen-portal/internal/notify"
	"citizen-portal/internal/repository"
	"citizen-portal/internal/service"
	"citizen-portal/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	imageStore, err := storage.NewDiskStore(cfg.Media.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare media directory")
	}

	feedbackRepo := repository.NewFeedbackRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	directoryRepo := repository.NewDirectoryRepository(database)

	mailer := notify.NewMailer(cfg.SMTP, cfg.Feedback.AdminEmails)

	feedbackService := service.NewFeedbackService(
		feedbackRepo,
		imageStore,
		mailer,
		cfg.Feedback.MaxImages,
		cfg.Feedback.MaxImageSize,
		log,
	)
	catalogService := service.NewCatalogService(catalogRepo)
	directoryService := service.NewDirectoryService(directoryRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(feedbackService, catalogService, directoryService, log)
	router := httphandler.NewRouter(handler, middleware.AdminAuth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting citizen portal")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
