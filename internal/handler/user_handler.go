package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/dto"
	"github.com/mpaulosky/blogsite/internal/metrics"
	"github.com/mpaulosky/blogsite/internal/middleware"
	"github.com/mpaulosky/blogsite/internal/repository"
)

// UserHandler handles user and role management requests. A fresh
// request-scoped user repository is created per request because the
// repository caches the resolved principal for its own lifetime.
type UserHandler struct {
	newUserRepo func() repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(newUserRepo func() repository.UserRepository) *UserHandler {
	return &UserHandler{newUserRepo: newUserRepo}
}

// RoleRequest is the payload for updating a user's role.
type RoleRequest struct {
	Role string `json:"role"`
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.newUserRepo().GetUser(c.Request.Context(), principal)
	if err != nil {
		requestLog(c).Error("Failed to resolve user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(*user))
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.newUserRepo().GetAllUsers(c.Request.Context())
	if err != nil {
		requestLog(c).Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateRole handles PUT /api/v1/users/:id/role. An empty role clears the
// user's role assignment.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Role != "" && !domain.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	user := &domain.User{ID: c.Param("id"), Role: req.Role}
	err := h.newUserRepo().UpdateRoleForUser(c.Request.Context(), user)
	metrics.ObserveContentWrite("user", "update_role", err)
	if err != nil {
		requestLog(c).Error("Failed to update role",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
