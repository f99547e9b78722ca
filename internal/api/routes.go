package api

import (
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer routes to. Auth is nil when
// the server runs without a database; account and workout routes then
// answer 503 while generation and chat keep working.
type Dependencies struct {
	Logger   *logger.Logger
	Auth     service.AuthService
	Workouts service.WorkoutService
	Chat     service.ChatService
	// PingDB reports database health for /ping; nil means no database.
	PingDB func(ctx context.Context) error
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(TraceIDMiddleware(deps.Logger), RequestLogger())

	workoutHandler := NewWorkoutHandler(deps.Workouts)
	chatHandler := NewChatHandler(deps.Chat)

	router.GET("/ping", ping(deps.PingDB))
	router.POST("/api/openai/chat", chatHandler.Chat)
	router.POST("/workout-submit-demo", AuthMiddleware(deps.Auth, false), workoutHandler.Generate(false))

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not found")
	})

	if deps.Auth == nil {
		router.Any("/api/auth/*path", unavailable)
		router.Any("/api/workouts", unavailable)
		router.Any("/api/workouts/*path", unavailable)
		router.POST("/workout-submit", unavailable)
		return
	}

	authHandler := NewAuthHandler(deps.Auth)
	requireAuth := AuthMiddleware(deps.Auth, true)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)
	}

	router.POST("/workout-submit", requireAuth, workoutHandler.Generate(true))

	workoutGroup := router.Group("/api/workouts")
	workoutGroup.Use(requireAuth)
	{
		workoutGroup.GET("", workoutHandler.List)
		workoutGroup.GET("/:id", workoutHandler.Get)
		workoutGroup.PUT("/:id", workoutHandler.Update)
		workoutGroup.DELETE("/:id", workoutHandler.Delete)
		workoutGroup.POST("/:id/export", workoutHandler.Export)
	}
}

func ping(pingDB func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "down"
		if pingDB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pingDB(ctx); err == nil {
				status = "up"
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong", "database": status})
	}
}
