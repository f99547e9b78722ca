package api

import (
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceUnavailableMsg = "Database is unavailable, the server is running in demo mode"

// respondError maps service errors onto HTTP responses. Server-side failures
// are logged with the request logger and answered with a generic message.
func respondError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "errors": verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrUsernameTaken):
		abortWithError(c, http.StatusConflict, "Username is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		abortWithError(c, http.StatusConflict, "Email is already registered")
	case errors.Is(err, service.ErrConflict):
		abortWithError(c, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, "Workout not found")
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "Workout export is not available")
	case errors.Is(err, service.ErrUpstream):
		log.Error().Err(err).Msg("upstream failure")
		abortWithError(c, http.StatusInternalServerError, "Failed to generate workout")
	default:
		log.Error().Err(err).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// invalidBody answers a request whose JSON body could not be decoded.
func invalidBody(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("invalid request body")
	abortWithError(c, http.StatusBadRequest, "Invalid request body")
}

// unavailable answers routes that need the database while running without one.
func unavailable(c *gin.Context) {
	abortWithError(c, http.StatusServiceUnavailable, serviceUnavailableMsg)
}
