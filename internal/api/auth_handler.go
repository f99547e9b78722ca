package api

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest carries the login identifier in Email; a username works too.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body service.RegisterInput true "Registration details"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} gin.H "Validation error"
// @Failure 409 {object} gin.H "Username or email taken"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary Log in with email or username
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile merges the recognized profile fields into the caller's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var patch domain.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		invalidBody(c, err)
		return
	}

	updated, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": updated})
}
