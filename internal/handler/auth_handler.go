package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/auth"
	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/dto"
	"github.com/mpaulosky/blogsite/internal/identity"
	"github.com/mpaulosky/blogsite/internal/validator"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	store      *identity.Store
	jwtService *auth.JWTService
	validator  *validator.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store *identity.Store, jwtService *auth.JWTService, v *validator.Validator) *AuthHandler {
	return &AuthHandler{
		store:      store,
		jwtService: jwtService,
		validator:  v,
	}
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	UserName    string `json:"user_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register. New accounts start without a
// role; an administrator assigns one later.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	user := domain.User{
		UserName:    req.UserName,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if err := h.validator.ValidateUser(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.store.CreateUser(c.Request.Context(), user, req.Password)
	if err != nil {
		requestLog(c).Error("Failed to create user",
			slog.String("user_name", req.UserName),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, dto.FromUser(*created))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), req.UserName, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		requestLog(c).Error("Failed to authenticate",
			slog.String("user_name", req.UserName),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		requestLog(c).Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  dto.FromUser(*user),
	})
}
