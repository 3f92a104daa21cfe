package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/platform/internal/api"
	"fitcoach/platform/internal/cache"
	"fitcoach/platform/internal/config"
	"fitcoach/platform/internal/events"
	"fitcoach/platform/internal/logging"
	"fitcoach/platform/internal/metrics"
	"fitcoach/platform/internal/repository/mongo"
	"fitcoach/platform/internal/service"
	"fitcoach/platform/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// @title Fitness Coaching API
// @version 1.0
// @description Trainers prescribe diets and training plans; students log meals, sets and progress.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})

	if err := run(cfg); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
	log.Info("server exiting")
}

func run(cfg config.Config) (err error) {
	ctx := context.Background()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("disconnecting mongodb")
		err = multierr.Append(err, mongo.DisconnectDB(dbClient))
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("db", cfg.Database.Name).Info("database connection established")

	go func() {
		indexCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(indexCtx, appDB)
	}()

	// --- Optional infrastructure ---
	summaries, closeCache := setupCache(ctx, cfg.Redis)
	defer func() { err = multierr.Append(err, closeCache()) }()

	publisher := setupPublisher(cfg.AMQP)
	defer func() { err = multierr.Append(err, publisher.Close()) }()

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		s3Storage, s3Err := storage.NewS3Storage(ctx, cfg.S3)
		if s3Err != nil {
			log.Warnf("progress photos disabled: %s", s3Err)
		} else {
			fileStorage = s3Storage
		}
	} else {
		log.Info("no s3 bucket configured, progress photos disabled")
	}

	var metricsManager *metrics.Manager
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsManager = metrics.NewManager(cfg.Metrics.Namespace, "server", registry)
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	foodRepo := mongo.NewMongoFoodItemRepository(appDB)
	dietRepo := mongo.NewMongoDietPlanRepository(appDB)
	mealRepo := mongo.NewMongoMealRegistrationRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	progressRepo := mongo.NewMongoProgressLogRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)

	// --- Services ---
	authService, err := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		return err
	}
	services := api.Services{
		Auth:     authService,
		Exercise: service.NewExerciseService(exerciseRepo),
		Food:     service.NewFoodService(foodRepo),
		Trainer: service.NewTrainerService(service.TrainerRepositories{
			Users:     userRepo,
			Exercises: exerciseRepo,
			Plans:     planRepo,
			Workouts:  workoutRepo,
			Diets:     dietRepo,
			Foods:     foodRepo,
			Sessions:  sessionRepo,
			Progress:  progressRepo,
		}, summaries),
		Student: service.NewStudentService(service.StudentRepositories{
			Users:     userRepo,
			Exercises: exerciseRepo,
			Plans:     planRepo,
			Workouts:  workoutRepo,
			Diets:     dietRepo,
			Foods:     foodRepo,
			Meals:     mealRepo,
			Sessions:  sessionRepo,
			Progress:  progressRepo,
		}, summaries, publisher, metricsManager),
		Message: service.NewMessageService(messageRepo, userRepo, publisher),
		Photo:   service.NewPhotoService(uploadRepo, userRepo, fileStorage, cfg.S3.URLExpiry),
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if metricsManager != nil {
		router.Use(metricsManager.GinMiddleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	api.SetupRoutes(router, services)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Infof("received %s, shutting down", sig)
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setupCache connects to redis when configured. Without redis, or when it
// cannot be reached, dashboards are computed on every request.
func setupCache(ctx context.Context, cfg config.RedisConfig) (cache.SummaryCache, func() error) {
	noop := func() error { return nil }
	if cfg.Addr == "" {
		log.Info("no redis configured, dashboard cache disabled")
		return cache.NoopSummaryCache{}, noop
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis unreachable, dashboard cache disabled: %s", err)
		_ = rdb.Close()
		return cache.NoopSummaryCache{}, noop
	}

	log.WithField("addr", cfg.Addr).Info("dashboard cache enabled")
	return cache.NewRedisSummaryCache(rdb, cfg.TTL), rdb.Close
}

// setupPublisher connects to the broker when configured. Events are
// best-effort, so a failed connection only disables them.
func setupPublisher(cfg config.AMQPConfig) events.Publisher {
	if cfg.URL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Warnf("event publishing disabled: %s", err)
		return events.NoopPublisher{}
	}
	return publisher
}
