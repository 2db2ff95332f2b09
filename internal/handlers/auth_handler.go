package handlers

import (
	"context"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

type IdentityProvider interface {
	Authenticator
	Signup(ctx context.Context, req models.SignupRequest) (*models.Agent, error)
	Login(ctx context.Context, username, password string) (string, *models.Agent, error)
	Logout(ctx context.Context, identity *models.Identity) error
}

type AuthHandler struct {
	identity IdentityProvider
	logger   zerolog.Logger
}

func NewAuthHandler(identity IdentityProvider, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

func (h *AuthHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/agent/signup", h.Signup)
	r.POST("/agent/login", h.Login)
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/agent/logout", h.Logout)
	r.GET("/agent/profile", h.Profile)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "username and password are required")
		return
	}

	agent, err := h.identity.Signup(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("agent signup failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userId": agent.ID})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	token, agent, err := h.identity.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("agent login failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": token,
		"agent":       agent.Profile(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.identity.Logout(c.Request.Context(), identityFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agent": identityFrom(c).Profile})
}
