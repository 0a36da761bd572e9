package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"

	"github.com/gin-gonic/gin"
)

// CatalogService is the application shell as seen by the public API.
type CatalogService interface {
	Store() catalog.Store
	State(p *model.Profile) shell.State
	AIAvailable() bool
	ToolSlides(ctx context.Context, p *model.Profile, id string) ([]model.Slide, error)
	ToolTutorial(ctx context.Context, p *model.Profile, id string) ([]model.TutorialSection, error)
	ToolCourse(ctx context.Context, p *model.Profile, id string) (*model.Course, error)
	GenerateCourse(ctx context.Context, p *model.Profile, id string) (*model.Course, error)
}

type CatalogHandler struct {
	service CatalogService
}

func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListTools(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	tools, err := h.service.Store().Tools(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	page := c.Query("page")
	category := c.Query("category")
	filtered := make([]model.Tool, 0, len(tools))
	for _, t := range tools {
		if page != "" && t.PageOrDefault() != page {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		filtered = append(filtered, t)
	}

	c.JSON(http.StatusOK, ToolListResponse{
		Tools:  paginate(filtered, limit, offset),
		Total:  len(filtered),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *CatalogHandler) GetTool(c *gin.Context) {
	id := c.Param("id")

	tool, err := h.service.Store().Tool(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if tool == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tool not found"})
		return
	}

	c.JSON(http.StatusOK, tool)
}

func (h *CatalogHandler) ListNews(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	news, err := h.service.Store().News(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	category := c.Query("category")
	filtered := make([]model.NewsArticle, 0, len(news))
	for _, a := range news {
		if category == "" || a.Category == category {
			filtered = append(filtered, a)
		}
	}

	c.JSON(http.StatusOK, NewsListResponse{
		News:   paginate(filtered, limit, offset),
		Total:  len(filtered),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *CatalogHandler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.service.Store().Article(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *CatalogHandler) GetSlides(c *gin.Context) {
	slides, err := h.service.ToolSlides(c.Request.Context(), profileFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": slides})
}

func (h *CatalogHandler) GetTutorial(c *gin.Context) {
	tutorial, err := h.service.ToolTutorial(c.Request.Context(), profileFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tutorial": tutorial})
}

// GetCourse returns the stored course, or null when none was generated yet.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.service.ToolCourse(c.Request.Context(), profileFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CatalogHandler) GenerateCourse(c *gin.Context) {
	course, err := h.service.GenerateCourse(c.Request.Context(), profileFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CatalogHandler) GetMe(c *gin.Context) {
	p := profileFrom(c)
	c.JSON(http.StatusOK, MeResponse{
		State:          h.service.State(p),
		Profile:        p,
		CanAccessAdmin: shell.CanAccessAdmin(p),
		PremiumAccess:  p.HasPremiumAccess(),
		AIAvailable:    h.service.AIAvailable(),
	})
}

func (h *CatalogHandler) GetHealth(c *gin.Context) {
	mode := h.service.State(nil).Mode

	_, err := h.service.Store().Tools(c.Request.Context())
	if err != nil {
		slog.Warn("health check failed", "mode", mode, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"mode":     mode,
			"database": "disconnected",
		})
		return
	}

	database := "connected"
	if mode == shell.ModeLocal {
		database = "local"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"mode":     mode,
		"database": database,
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 50
		maxLimit     = 200
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
