package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/cache"
	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/dto"
	"github.com/mpaulosky/blogsite/internal/metrics"
	"github.com/mpaulosky/blogsite/internal/middleware"
	"github.com/mpaulosky/blogsite/internal/repository"
	"github.com/mpaulosky/blogsite/internal/validator"
)

// ArticleHandler handles article-related HTTP requests.
type ArticleHandler struct {
	articles    repository.ArticleRepository
	categories  repository.CategoryRepository
	newUserRepo func() repository.UserRepository
	cache       *cache.Client
	validator   *validator.Validator
}

// NewArticleHandler creates a new ArticleHandler. newUserRepo must return a
// fresh request-scoped user repository on every call.
func NewArticleHandler(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	newUserRepo func() repository.UserRepository,
	cacheClient *cache.Client,
	v *validator.Validator,
) *ArticleHandler {
	return &ArticleHandler{
		articles:    articles,
		categories:  categories,
		newUserRepo: newUserRepo,
		cache:       cacheClient,
		validator:   v,
	}
}

// ArticleRequest is the payload for creating or updating an article.
type ArticleRequest struct {
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	Introduction  string  `json:"introduction"`
	Content       string  `json:"content"`
	CoverImageURL *string `json:"cover_image_url"`
	IsPublished   bool    `json:"is_published"`
	CategoryID    int     `json:"category_id"`
}

// List handles GET /api/v1/articles. Archived articles are excluded unless
// include_archived=true.
func (h *ArticleHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	articles, err := h.articles.GetArticlesWhere(c.Request.Context(), func(a domain.Article) bool {
		return includeArchived || !a.IsArchived
	})
	if err != nil {
		requestLog(c).Error("Failed to list articles", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, h.toDTOs(c, articles))
}

// Get handles GET /api/v1/articles/:date/:slug.
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.GetArticle(c.Request.Context(), c.Param("date"), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		requestLog(c).Error("Failed to get article", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	c.JSON(http.StatusOK, h.toDTO(c, *article))
}

// Create handles POST /api/v1/articles. The caller becomes the author.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	principal := middleware.GetPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = domain.Slugify(req.Title)
	}

	article := domain.Article{
		Slug:          slug,
		Title:         req.Title,
		Introduction:  req.Introduction,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		IsPublished:   req.IsPublished,
		CategoryID:    req.CategoryID,
		AuthorID:      principal.UserID,
	}

	if err := h.validator.ValidateArticle(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.articles.AddArticle(c.Request.Context(), &article)
	metrics.ObserveContentWrite("article", "add", err)
	if err != nil {
		requestLog(c).Error("Failed to add article",
			slog.String("slug", article.Slug),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, h.toDTO(c, *stored))
}

// Update handles PUT /api/v1/articles/:slug.
func (h *ArticleHandler) Update(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	slug := c.Param("slug")
	existing, err := h.articles.GetArticlesWhere(c.Request.Context(), func(a domain.Article) bool {
		return a.Slug == slug
	})
	if err != nil {
		requestLog(c).Error("Failed to load article", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if len(existing) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	article := existing[0]
	article.Title = req.Title
	article.Introduction = req.Introduction
	article.Content = req.Content
	article.CoverImageURL = req.CoverImageURL
	article.IsPublished = req.IsPublished
	article.CategoryID = req.CategoryID

	if err := h.validator.ValidateArticle(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.articles.UpdateArticle(c.Request.Context(), &article)
	metrics.ObserveContentWrite("article", "update", err)
	if err != nil {
		requestLog(c).Error("Failed to update article",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, h.toDTO(c, *updated))
}

// Archive handles POST /api/v1/articles/:slug/archive. Archiving an unknown
// or already-archived slug succeeds with no effect.
func (h *ArticleHandler) Archive(c *gin.Context) {
	slug := c.Param("slug")
	err := h.articles.ArchiveArticle(c.Request.Context(), slug)
	metrics.ObserveContentWrite("article", "archive", err)
	if err != nil {
		requestLog(c).Error("Failed to archive article",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.invalidate(c)
	c.Status(http.StatusNoContent)
}

// invalidate drops every cached article response. The list, its query-string
// variants and the detail pages all share the articles key prefix.
func (h *ArticleHandler) invalidate(c *gin.Context) {
	_ = h.cache.DeleteByPrefix(c.Request.Context(), middleware.OutputCacheKey("/api/v1/articles"))
}

// toDTOs maps articles to DTOs with categories and author names resolved in
// one pass.
func (h *ArticleHandler) toDTOs(c *gin.Context, articles []domain.Article) []dto.ArticleDTO {
	ctx := c.Request.Context()

	categoryByID := map[int]domain.Category{}
	if categories, err := h.categories.GetCategories(ctx); err == nil {
		for _, cat := range categories {
			categoryByID[cat.ID] = cat
		}
	}

	userByID := map[string]domain.User{}
	if users, err := h.newUserRepo().GetAllUsers(ctx); err == nil {
		for _, u := range users {
			userByID[u.ID] = u
		}
	}

	out := make([]dto.ArticleDTO, 0, len(articles))
	for _, a := range articles {
		var category *domain.Category
		if cat, ok := categoryByID[a.CategoryID]; ok {
			category = &cat
		}
		var author *domain.User
		if u, ok := userByID[a.AuthorID]; ok {
			author = &u
		}
		out = append(out, dto.FromArticle(a, category, author))
	}
	return out
}

func (h *ArticleHandler) toDTO(c *gin.Context, a domain.Article) dto.ArticleDTO {
	ds := h.toDTOs(c, []domain.Article{a})
	return ds[0]
}
