package main

import (
	"alcyxob/workout-buddy/internal/api"
	"alcyxob/workout-buddy/internal/config"
	"alcyxob/workout-buddy/internal/generator"
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/repository/mongo"
	"alcyxob/workout-buddy/internal/service"
	"alcyxob/workout-buddy/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// @title WorkoutBuddy API
// @version 1.0
// @description Accounts, AI generated workout plans and workout history.
// @host localhost:5412
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.NewLogger("workout-buddy", "info").Fatal().Err(err).Msg("could not load config")
	}
	log := logger.NewLogger("workout-buddy", cfg.Log.Level)
	log.Info().Str("address", cfg.Server.ListenAddress()).Msg("starting WorkoutBuddy server")

	// --- Database Connection ---
	// Without a database the server still answers generation and chat requests.
	var (
		deps     = api.Dependencies{Logger: log}
		dbClient *mongodriver.Client
	)
	dbClient, err = mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
	if err != nil {
		log.Warn().Err(err).Msg("could not connect to MongoDB, running in demo mode")
	} else {
		defer func() {
			log.Info().Msg("disconnecting MongoDB")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Error().Err(err).Msg("failed to disconnect MongoDB")
			}
		}()
	}

	// --- LLM client ---
	gen := generator.NewClient(cfg.LLM)
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("llm.api_key is not set, workout generation will fail")
	}

	// --- Initialize Storage ---
	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
		log.Info().Str("bucket", cfg.S3.BucketName).Msg("workout export enabled")
	}

	if dbClient != nil {
		appDB := dbClient.Database(cfg.Database.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
				log.Error().Err(err).Msg("index creation failed")
				return
			}
			log.Info().Msg("database indexes ensured")
		}()

		userRepo := mongo.NewMongoUserRepository(appDB)
		workoutRepo := mongo.NewMongoWorkoutRepository(appDB)

		tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
		deps.Auth = service.NewAuthService(userRepo, tokens)
		deps.Workouts = service.NewWorkoutService(workoutRepo, gen, files, cfg.S3.PresignExpiry)
		deps.PingDB = func(ctx context.Context) error { return mongo.Ping(ctx, dbClient) }
	} else {
		deps.Workouts = service.NewWorkoutService(nil, gen, nil, cfg.S3.PresignExpiry)
	}
	deps.Chat = service.NewChatService(gen)

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, deps)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.ListenAddress(),
		Handler:      api.WithCORS(router, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()
	log.Info().Str("address", server.Addr).Bool("database", dbClient != nil).Msg("server started")

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exiting")
}
