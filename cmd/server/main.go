package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/api"
	"github.com/Barry4747/ZnanyByk-sub001/internal/cache"
	"github.com/Barry4747/ZnanyByk-sub001/internal/config"
	"github.com/Barry4747/ZnanyByk-sub001/internal/logger"
	"github.com/Barry4747/ZnanyByk-sub001/internal/notify"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository/mongo"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"
	"github.com/Barry4747/ZnanyByk-sub001/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Trainer Booking API
// @version 1.0
// @description API for finding personal trainers, booking sessions, chatting and paying.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// The logger is not configured yet.
		os.Stderr.WriteString("could not load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		os.Stderr.WriteString("could not build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
	log.Info("server exiting")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- Database ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established", zap.String("database", cfg.Database.Name))

	go func() {
		indexCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(indexCtx, appDB, log)
	}()

	// --- Storage ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, log)
	if err != nil {
		return err
	}

	// --- Trainer cache ---
	var trainerCache service.Cache
	if cfg.Redis.Address != "" {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		trainerCache = redisCache
		log.Info("trainer cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		log.Info("redis address not set, trainer cache disabled")
	}

	// --- Events ---
	var publisher notify.Publisher = notify.Nop{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err = notify.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, 5, 2*time.Second, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
	} else {
		log.Info("rabbitmq url not set, events are not published")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	trainerRepo := mongo.NewMongoTrainerRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	appointmentRepo := mongo.NewMongoAppointmentRepository(appDB)
	chatRepo := mongo.NewMongoChatRepository(appDB)
	paymentRepo := mongo.NewMongoPaymentRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)

	// --- Services ---
	trainerService := service.NewTrainerService(trainerRepo, fileStorage, trainerCache, cfg.Redis.TrainerTTL, log)
	services := api.Services{
		Auth:        service.NewAuthService(userRepo, trainerRepo, scheduleRepo, cfg.JWT.Secret, cfg.JWT.Expiration, log),
		Profile:     service.NewProfileService(userRepo, uploadRepo, trainerService, fileStorage, loc, log),
		Trainer:     trainerService,
		Schedule:    service.NewScheduleService(scheduleRepo, trainerRepo, log),
		Appointment: service.NewAppointmentService(appointmentRepo, trainerRepo, publisher, loc, log),
		Chat:        service.NewChatService(chatRepo, userRepo, publisher, loc, log),
		Payment:     service.NewPaymentService(paymentRepo, appointmentRepo, publisher, log),
	}

	// --- HTTP ---
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.GinMiddleware(log), gin.Recovery())
	if err := api.SetupRoutes(router, services, api.NewMetrics(log), cfg.RateLimit, log); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
