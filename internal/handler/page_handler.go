package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sort"

	"github.com/ANOUAR90ESS/veto7/internal/admin"
	"github.com/ANOUAR90ESS/veto7/internal/checkout"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"tools", "news", "article", "profile", "admin", "pricing", "payment_success", "access_denied", "not_found",
}

type planView struct {
	Name  string
	Price string
}

type pageData struct {
	State       shell.State
	Profile     *model.Profile
	IsAdmin     bool
	Premium     bool
	AIAvailable bool

	Heading   string
	Tools     []model.Tool
	News      []model.NewsArticle
	Article   *model.NewsArticle
	Tabs      []admin.Tab
	Plans     []planView
	SessionID string
}

// PageHandler renders the public site and the dashboard entry page.
type PageHandler struct {
	service CatalogService
	pages   map[string]*template.Template
}

func NewPageHandler(service CatalogService) (*PageHandler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return &PageHandler{service: service, pages: pages}, nil
}

// Register mounts every page route plus the catch-all 404.
func (h *PageHandler) Register(r *gin.Engine) {
	r.GET("/", h.toolsPage("", "Discover the Best AI Tools"))
	r.GET("/free-tools", h.toolsPage(model.PageFree, "Free AI Tools"))
	r.GET("/paid-tools", h.toolsPage(model.PagePaid, "Paid AI Tools"))
	r.GET("/top-tools", h.toolsPage(model.PageTop, "Top AI Tools"))
	r.GET("/news", h.News)
	r.GET("/news/:id", h.Article)
	r.GET("/profile", h.Profile)
	r.GET("/admin", h.Admin)
	r.GET("/pricing", h.Pricing)
	r.GET("/payment-success", h.PaymentSuccess)
	r.NoRoute(h.NotFound)
}

func (h *PageHandler) data(c *gin.Context) pageData {
	p := profileFrom(c)
	return pageData{
		State:       h.service.State(p),
		Profile:     p,
		IsAdmin:     shell.CanAccessAdmin(p),
		Premium:     p.HasPremiumAccess(),
		AIAvailable: h.service.AIAvailable(),
	}
}

func (h *PageHandler) render(c *gin.Context, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("error rendering page", "page", name, "error", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PageHandler) toolsPage(page, heading string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tools, err := h.service.Store().Tools(c.Request.Context())
		if err != nil {
			slog.Error("error loading tools", "page", page, "error", err)
			tools = []model.Tool{}
		}

		data := h.data(c)
		data.Heading = heading
		if page == "" {
			data.Tools = tools
		} else {
			for _, t := range tools {
				if t.PageOrDefault() == page {
					data.Tools = append(data.Tools, t)
				}
			}
		}
		h.render(c, http.StatusOK, "tools", data)
	}
}

func (h *PageHandler) News(c *gin.Context) {
	news, err := h.service.Store().News(c.Request.Context())
	if err != nil {
		slog.Error("error loading news", "error", err)
	}

	data := h.data(c)
	data.News = news
	h.render(c, http.StatusOK, "news", data)
}

func (h *PageHandler) Article(c *gin.Context) {
	article, err := h.service.Store().Article(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("error loading article", "id", c.Param("id"), "error", err)
	}
	if article == nil {
		h.NotFound(c)
		return
	}

	data := h.data(c)
	data.Article = article
	h.render(c, http.StatusOK, "article", data)
}

func (h *PageHandler) Profile(c *gin.Context) {
	h.render(c, http.StatusOK, "profile", h.data(c))
}

// Admin renders the dashboard only for a profile whose role is exactly admin.
func (h *PageHandler) Admin(c *gin.Context) {
	data := h.data(c)
	if !data.IsAdmin {
		h.render(c, http.StatusForbidden, "access_denied", data)
		return
	}
	data.Tabs = admin.Tabs
	h.render(c, http.StatusOK, "admin", data)
}

func (h *PageHandler) Pricing(c *gin.Context) {
	data := h.data(c)
	for name, price := range checkout.Prices {
		data.Plans = append(data.Plans, planView{
			Name:  name,
			Price: fmt.Sprintf("%d.%02d", price.Amount/100, price.Amount%100),
		})
	}
	sort.Slice(data.Plans, func(i, j int) bool {
		return checkout.Prices[data.Plans[i].Name].Amount < checkout.Prices[data.Plans[j].Name].Amount
	})
	h.render(c, http.StatusOK, "pricing", data)
}

func (h *PageHandler) PaymentSuccess(c *gin.Context) {
	data := h.data(c)
	data.SessionID = c.Query("session_id")
	h.render(c, http.StatusOK, "payment_success", data)
}

func (h *PageHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", h.data(c))
}
