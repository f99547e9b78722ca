package api

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Constants for context keys
const (
	ContextUserKey = "user"
	traceIDHeader  = "X-Trace-ID"
)

// TraceIDMiddleware attaches a child of base carrying the request trace id to
// the request context. An incoming X-Trace-ID header is reused.
func TraceIDMiddleware(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := base.GetChildLogger()
		l.UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str("trace_id", traceID)
		})
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// RequestLogger writes one access line per request with the request logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.FromContext(c.Request.Context()).Info().
			Str("uri", c.Request.RequestURI).
			Str("method", c.Request.Method).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Int("size", c.Writer.Size()).
			Send()
	}
}

// AuthMiddleware resolves the bearer token to a user and stores it under
// ContextUserKey. A missing header is rejected only when required is set;
// a present but invalid token is always rejected.
func AuthMiddleware(authService service.AuthService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		token, present, err := bearerToken(c.GetHeader("Authorization"))
		if !present {
			if required {
				abortWithError(c, http.StatusUnauthorized, "Access token required")
				return
			}
			c.Next()
			return
		}
		if err != nil {
			log.Debug().Err(err).Msg("rejected authorization header")
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		if authService == nil {
			// accounts are unavailable without a database
			if required {
				abortWithError(c, http.StatusServiceUnavailable, serviceUnavailableMsg)
				return
			}
			c.Next()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidToken):
				log.Debug().Msg("invalid or expired token")
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			case errors.Is(err, service.ErrUserNotFound):
				log.Warn().Msg("token for unknown user")
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			default:
				log.Error().Err(err).Msg("failed to resolve token user")
				abortWithError(c, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		l := log.GetChildLogger()
		l.UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str("user_id", user.ID.Hex())
		})
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Set(ContextUserKey, user)

		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// present is false when the header is absent.
func bearerToken(header string) (token string, present bool, err error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false, nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true, errors.New("authorization header is not a bearer token")
	}
	return parts[1], true, nil
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// currentUser returns the authenticated user, or nil for anonymous requests.
func currentUser(c *gin.Context) *domain.User {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := raw.(*domain.User)
	return user
}

// mustUser is currentUser for routes behind a required AuthMiddleware.
func mustUser(c *gin.Context) (*domain.User, bool) {
	user := currentUser(c)
	if user == nil {
		// This should not happen if AuthMiddleware ran correctly
		abortWithError(c, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	return user, true
}
