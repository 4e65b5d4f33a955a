package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/cache"
	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/dto"
	"github.com/mpaulosky/blogsite/internal/metrics"
	"github.com/mpaulosky/blogsite/internal/middleware"
	"github.com/mpaulosky/blogsite/internal/repository"
	"github.com/mpaulosky/blogsite/internal/validator"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categories repository.CategoryRepository
	cache      *cache.Client
	validator  *validator.Validator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories repository.CategoryRepository, cacheClient *cache.Client, v *validator.Validator) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		cache:      cacheClient,
		validator:  v,
	}
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	CategoryName string `json:"category_name"`
}

// List handles GET /api/v1/categories. Archived categories are excluded
// unless include_archived=true.
func (h *CategoryHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	categories, err := h.categories.GetCategoriesWhere(c.Request.Context(), func(cat domain.Category) bool {
		return includeArchived || !cat.IsArchived
	})
	if err != nil {
		requestLog(c).Error("Failed to list categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.FromCategory(cat))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/v1/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		requestLog(c).Error("Failed to load category", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	c.JSON(http.StatusOK, dto.FromCategory(*category))
}

// Create handles POST /api/v1/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category := domain.Category{CategoryName: req.CategoryName}
	if err := h.validator.ValidateCategory(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.categories.AddCategory(c.Request.Context(), &category)
	metrics.ObserveContentWrite("category", "add", err)
	if err != nil {
		requestLog(c).Error("Failed to add category", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, dto.FromCategory(*stored))
}

// Update handles PUT /api/v1/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		requestLog(c).Error("Failed to load category", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	existing.CategoryName = req.CategoryName
	if err := h.validator.ValidateCategory(existing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.categories.UpdateCategory(c.Request.Context(), existing)
	metrics.ObserveContentWrite("category", "update", err)
	if err != nil {
		requestLog(c).Error("Failed to update category", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, dto.FromCategory(*updated))
}

// Archive handles POST /api/v1/categories/:id/archive. Archiving never
// cascades to the category's articles.
func (h *CategoryHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	err = h.categories.ArchiveCategory(c.Request.Context(), id)
	metrics.ObserveContentWrite("category", "archive", err)
	if err != nil {
		requestLog(c).Error("Failed to archive category",
			slog.Int("id", id),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.invalidate(c)
	c.Status(http.StatusNoContent)
}

// invalidate drops every cached category response, including query-string
// variants and per-id detail pages.
func (h *CategoryHandler) invalidate(c *gin.Context) {
	_ = h.cache.DeleteByPrefix(c.Request.Context(), middleware.OutputCacheKey("/api/v1/categories"))
}
