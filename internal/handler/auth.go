package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/auth"
	"github.com/ulimi/corpus-api/internal/model"
)

type AuthHandler struct {
	manager   *auth.Manager
	jwtSecret string
	logger    zerolog.Logger
}

func NewAuthHandler(manager *auth.Manager, jwtSecret string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{manager: manager, jwtSecret: jwtSecret, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	ExpiresIn   int            `json:"expiresIn"`
	Session     *model.Session `json:"session"`
}

// Login creates a session for the submitted pair and issues an access
// token for it.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	session, err := h.manager.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}
		if errors.Is(err, model.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := auth.GenerateAccessToken(session, h.jwtSecret)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(auth.AccessTokenExpiry.Seconds()),
		Session:     session,
	})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session returns the current session, or an anonymous marker.
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.manager.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"session": nil, "anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "anonymous": false})
}

// Users lists the per-username login records (read-only).
func (h *AuthHandler) Users(c *gin.Context) {
	users, err := h.manager.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "total": len(users)})
}
