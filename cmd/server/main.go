package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy/lms-backend/internal/api"
	"academy/lms-backend/internal/config"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/metrics"
	"academy/lms-backend/internal/repository/mongo"
	"academy/lms-backend/internal/service"
	"academy/lms-backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// @title LMS API
// @version 1.0
// @description Course, section and session management with file uploads.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.New(config.LogConfig{Level: "info"}).WithError(err).Fatal("could not load config")
	}
	log := logger.New(cfg.Log)
	if err = cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("env", cfg.Server.Env).Info("starting LMS server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.WithError(err).Warn("index creation failed")
			return
		}
		log.Info("indexes ensured")
	}()

	// --- Storage ---
	provider := storage.NewProvider(cfg, log)
	go checkStorage(provider, log)

	// --- Metrics ---
	recorder, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		log.WithError(err).Fatal("could not register metrics")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	courseRepo := mongo.NewMongoCourseRepository(appDB)
	sectionRepo := mongo.NewMongoSectionRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)

	// --- Services ---
	services := api.Services{
		Auth:    service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, log),
		Course:  service.NewCourseService(courseRepo, log),
		Section: service.NewSectionService(sectionRepo, courseRepo, log),
		Session: service.NewSessionService(sessionRepo, sectionRepo, courseRepo, log),
		Upload:  service.NewUploadService(provider, cfg.S3, cfg.Server.UploadTimeout, recorder, log),
	}

	router := api.NewRouter(api.RouterOptions{
		JWTSecret:     cfg.JWT.Secret,
		Production:    cfg.IsProduction(),
		CORSOrigins:   cfg.Server.CORSOrigins,
		UploadTimeout: cfg.Server.UploadTimeout,
		Upload:        cfg.Upload,
	}, services, recorder, log)

	// --- Start HTTP Server ---
	// Upload routes raise their own deadlines past these.
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exiting")
}

// checkStorage builds the adapter and verifies it can reach the provider.
// Failures only warn: the server keeps serving, and uploads report the problem.
func checkStorage(provider *storage.Provider, log logrus.FieldLogger) {
	adapter, err := provider.Adapter()
	if err != nil {
		log.WithError(err).Warn("storage is not available, uploads will fail")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := adapter.Check(ctx); err != nil {
		log.WithError(err).WithField("provider", adapter.Name()).Warn("storage check failed")
		return
	}
	log.WithField("provider", adapter.Name()).Info("storage check passed")
}
