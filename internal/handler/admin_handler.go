package handler

import (
	"net/http"

	"github.com/ANOUAR90ESS/veto7/internal/admin"
	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	workspaces *admin.Workspaces
}

func NewAdminHandler(workspaces *admin.Workspaces) *AdminHandler {
	return &AdminHandler{workspaces: workspaces}
}

// Register mounts the dashboard API. The group must already be gated by RequireAdmin.
func (h *AdminHandler) Register(g *gin.RouterGroup) {
	g.GET("/workspace", h.GetWorkspace)
	g.PUT("/tab", h.SetTab)
	g.POST("/preview/close", h.ClosePreview)

	g.PUT("/tool/draft", h.SetToolDraft)
	g.PUT("/tool/gen-input", h.SetToolGenInput)
	g.POST("/tool/tags", h.AddToolTag)
	g.PUT("/tool/image-mode", h.SetToolImageMode)
	g.POST("/tool/image/upload", h.UploadToolImage)
	g.POST("/tool/image/generate", h.GenerateToolImage)
	g.POST("/tool/generate", h.GenerateTool)
	g.POST("/tool/slides", h.GenerateDraftSlides)
	g.POST("/tool/tutorial", h.GenerateDraftTutorial)
	g.POST("/tool/course", h.GenerateDraftCourse)
	g.POST("/tool/submit", h.SubmitTool)
	g.POST("/tool/reset", h.ResetToolForm)
	g.POST("/tool/edit/:id", h.EditTool)
	g.POST("/tool/preview", h.PreviewToolDraft)

	g.PUT("/news/draft", h.SetNewsDraft)
	g.PUT("/news/gen-input", h.SetNewsGenInput)
	g.POST("/news/categories", h.AddNewsCategory)
	g.PUT("/news/image-mode", h.SetNewsImageMode)
	g.POST("/news/image/upload", h.UploadNewsImage)
	g.POST("/news/image/generate", h.GenerateNewsImage)
	g.POST("/news/generate", h.GenerateNews)
	g.POST("/news/submit", h.SubmitNews)
	g.POST("/news/reset", h.ResetNewsForm)
	g.POST("/news/edit/:id", h.EditNews)
	g.POST("/news/preview", h.PreviewNewsDraft)

	g.POST("/queue/tools/generate", h.GenerateToolCandidates)
	g.POST("/queue/tools/publish-all", h.PublishAllTools)
	g.POST("/queue/tools/:id/publish", h.PublishQueuedTool)
	g.POST("/queue/tools/:id/edit", h.EditQueuedTool)
	g.POST("/queue/tools/:id/preview", h.PreviewQueuedTool)
	g.DELETE("/queue/tools/:id", h.DiscardQueuedTool)

	g.POST("/queue/news/generate", h.GenerateNewsCandidates)
	g.POST("/queue/news/publish-all", h.PublishAllNews)
	g.POST("/queue/news/:id/publish", h.PublishQueuedNews)
	g.POST("/queue/news/:id/edit", h.EditQueuedNews)
	g.POST("/queue/news/:id/preview", h.PreviewQueuedNews)
	g.DELETE("/queue/news/:id", h.DiscardQueuedNews)

	g.POST("/delete/request", h.RequestDelete)
	g.POST("/delete/confirm", h.ConfirmDelete)
	g.POST("/delete/cancel", h.CancelDelete)

	g.POST("/success/preview", h.PreviewLastSuccess)
	g.POST("/success/edit", h.EditLastSuccess)

	g.POST("/rss/fetch", h.FetchRSS)
	g.POST("/rss/:item/tool", h.ConvertRSSToTool)
	g.POST("/rss/:item/news", h.ConvertRSSToNews)
	g.POST("/rss/:item/preview", h.PreviewRSSNews)

	g.GET("/manage/tools", h.ManageTools)
	g.GET("/manage/news", h.ManageNews)
	g.GET("/analytics", h.GetAnalytics)
	g.POST("/analytics/report", h.AnalyzeTrends)
	g.GET("/schema", h.GetSchema)
}

func (h *AdminHandler) workspace(c *gin.Context) *admin.Workspace {
	return h.workspaces.Get(profileFrom(c).ID)
}

// apply runs fn against the caller's workspace and answers with the resulting view.
func (h *AdminHandler) apply(c *gin.Context, fn func(w *admin.Workspace) error) {
	w := h.workspace(c)
	if err := fn(w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.View())
}

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func (h *AdminHandler) GetWorkspace(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace(c).View())
}

func (h *AdminHandler) SetTab(c *gin.Context) {
	var req TabRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.SetTab(admin.Tab(req.Tab)) })
}

func (h *AdminHandler) ClosePreview(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		w.ClosePreview()
		return nil
	})
}

func (h *AdminHandler) SetToolDraft(c *gin.Context) {
	var draft model.Tool
	if !bind(c, &draft) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		w.SetToolDraft(draft)
		return nil
	})
}

func (h *AdminHandler) SetToolGenInput(c *gin.Context) {
	var req GenInputRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		w.SetToolGenInput(req.Input, req.Count)
		return nil
	})
}

func (h *AdminHandler) AddToolTag(c *gin.Context) {
	var req NameRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		w.AddToolTag(req.Name)
		return nil
	})
}

func (h *AdminHandler) SetToolImageMode(c *gin.Context) {
	var req ImageModeRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.SetToolImageMode(admin.ImageMode(req.Mode)) })
}

func (h *AdminHandler) UploadToolImage(c *gin.Context) {
	var req ImageUploadRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.UploadToolImage(req.MimeType, req.Data) })
}

func (h *AdminHandler) GenerateToolImage(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateToolImage(c.Request.Context()) })
}

func (h *AdminHandler) GenerateTool(c *gin.Context) {
	var req NameRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateToolFromName(c.Request.Context(), req.Name) })
}

func (h *AdminHandler) GenerateDraftSlides(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateDraftSlides(c.Request.Context()) })
}

func (h *AdminHandler) GenerateDraftTutorial(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateDraftTutorial(c.Request.Context()) })
}

func (h *AdminHandler) GenerateDraftCourse(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateDraftCourse(c.Request.Context()) })
}

func (h *AdminHandler) SubmitTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.SubmitTool(c.Request.Context())
		return err
	})
}

func (h *AdminHandler) ResetToolForm(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		w.ResetToolForm()
		return nil
	})
}

func (h *AdminHandler) EditTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.StartEditingTool(c.Request.Context(), c.Param("id")) })
}

func (h *AdminHandler) PreviewToolDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace(c).PreviewToolDraft())
}

func (h *AdminHandler) SetNewsDraft(c *gin.Context) {
	var draft model.NewsArticle
	if !bind(c, &draft) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		w.SetNewsDraft(draft)
		return nil
	})
}

func (h *AdminHandler) SetNewsGenInput(c *gin.Context) {
	var req GenInputRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		w.SetNewsGenInput(req.Input, req.Count)
		return nil
	})
}

func (h *AdminHandler) AddNewsCategory(c *gin.Context) {
	var req NameRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.AddNewsCategory(req.Name) })
}

func (h *AdminHandler) SetNewsImageMode(c *gin.Context) {
	var req ImageModeRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.SetNewsImageMode(admin.ImageMode(req.Mode)) })
}

func (h *AdminHandler) UploadNewsImage(c *gin.Context) {
	var req ImageUploadRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.UploadNewsImage(req.MimeType, req.Data) })
}

func (h *AdminHandler) GenerateNewsImage(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateNewsImage(c.Request.Context()) })
}

func (h *AdminHandler) GenerateNews(c *gin.Context) {
	var req NameRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error { return w.GenerateNewsFromTopic(c.Request.Context(), req.Name) })
}

func (h *AdminHandler) SubmitNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.SubmitNews(c.Request.Context())
		return err
	})
}

func (h *AdminHandler) ResetNewsForm(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		w.ResetNewsForm()
		return nil
	})
}

func (h *AdminHandler) EditNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.StartEditingNews(c.Request.Context(), c.Param("id")) })
}

func (h *AdminHandler) PreviewNewsDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace(c).PreviewNewsDraft())
}

func (h *AdminHandler) GenerateToolCandidates(c *gin.Context) {
	var req CountRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.GenerateToolCandidates(c.Request.Context(), req.Count)
		return err
	})
}

func (h *AdminHandler) PublishAllTools(c *gin.Context) {
	n, err := h.workspace(c).PublishAllTools(c.Request.Context())
	respondPublishAll(c, n, err)
}

func (h *AdminHandler) PublishQueuedTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.PublishQueuedTool(c.Request.Context(), c.Param("id"))
		return err
	})
}

func (h *AdminHandler) EditQueuedTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.EditQueuedTool(c.Param("id")) })
}

func (h *AdminHandler) PreviewQueuedTool(c *gin.Context) {
	p, err := h.workspace(c).PreviewQueuedTool(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DiscardQueuedTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.DiscardQueuedTool(c.Param("id")) })
}

func (h *AdminHandler) GenerateNewsCandidates(c *gin.Context) {
	var req CountRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.GenerateNewsCandidates(c.Request.Context(), req.Count)
		return err
	})
}

func (h *AdminHandler) PublishAllNews(c *gin.Context) {
	n, err := h.workspace(c).PublishAllNews(c.Request.Context())
	respondPublishAll(c, n, err)
}

func (h *AdminHandler) PublishQueuedNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.PublishQueuedNews(c.Request.Context(), c.Param("id"))
		return err
	})
}

func (h *AdminHandler) EditQueuedNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.EditQueuedNews(c.Param("id")) })
}

func (h *AdminHandler) PreviewQueuedNews(c *gin.Context) {
	p, err := h.workspace(c).PreviewQueuedNews(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DiscardQueuedNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.DiscardQueuedNews(c.Param("id")) })
}

// respondPublishAll reports partial success: items that failed stay queued.
func respondPublishAll(c *gin.Context, published int, err error) {
	if err != nil {
		c.JSON(statusFor(err), PublishAllResponse{Published: published, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, PublishAllResponse{Published: published})
}

func (h *AdminHandler) RequestDelete(c *gin.Context) {
	var req DeleteRequest
	if !bind(c, &req) {
		return
	}
	target, err := h.workspace(c).RequestDelete(c.Request.Context(), req.Kind, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *AdminHandler) ConfirmDelete(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.ConfirmDelete(c.Request.Context())
		return err
	})
}

func (h *AdminHandler) CancelDelete(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error {
		w.CancelDelete()
		return nil
	})
}

func (h *AdminHandler) PreviewLastSuccess(c *gin.Context) {
	p, err := h.workspace(c).PreviewLastSuccess()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) EditLastSuccess(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.EditLastSuccess() })
}

func (h *AdminHandler) FetchRSS(c *gin.Context) {
	var req RSSFetchRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(w *admin.Workspace) error {
		_, err := w.FetchRSS(c.Request.Context(), req.URL, req.Count)
		return err
	})
}

func (h *AdminHandler) ConvertRSSToTool(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.ConvertRSSToTool(c.Request.Context(), c.Param("item")) })
}

func (h *AdminHandler) ConvertRSSToNews(c *gin.Context) {
	h.apply(c, func(w *admin.Workspace) error { return w.ConvertRSSToNews(c.Request.Context(), c.Param("item")) })
}

func (h *AdminHandler) PreviewRSSNews(c *gin.Context) {
	p, err := h.workspace(c).PreviewRSSNews(c.Request.Context(), c.Param("item"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) ManageTools(c *gin.Context) {
	listing, err := h.workspace(c).ManageTools(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *AdminHandler) ManageNews(c *gin.Context) {
	listing, err := h.workspace(c).ManageNews(c.Request.Context(), c.Query("category"), c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	a, err := h.workspace(c).Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdminHandler) AnalyzeTrends(c *gin.Context) {
	report, err := h.workspace(c).AnalyzeTrends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *AdminHandler) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, SchemaResponse{SQL: h.workspace(c).Schema()})
}
