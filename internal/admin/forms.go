package admin

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"
)

type ImageMode string

const (
	ImageModeURL      ImageMode = "url"
	ImageModeUpload   ImageMode = "upload"
	ImageModeGenerate ImageMode = "generate"
)

const (
	DefaultGenCount = 3
	MaxGenCount     = 10
)

var editorialImage = llm.ImageOptions{AspectRatio: "16:9", Resolution: "1K"}

type ToolForm struct {
	Draft     model.Tool `json:"draft"`
	EditingID string     `json:"editingId,omitempty"`
	ImageMode ImageMode  `json:"imageMode"`
	GenInput  string     `json:"genInput"`
	GenCount  int        `json:"genCount"`
}

type NewsForm struct {
	Draft     model.NewsArticle `json:"draft"`
	EditingID string            `json:"editingId,omitempty"`
	ImageMode ImageMode         `json:"imageMode"`
	GenInput  string            `json:"genInput"`
	GenCount  int               `json:"genCount"`
}

func newToolForm() ToolForm {
	return ToolForm{
		Draft: model.Tool{
			Category: "Writing",
			Price:    "Freemium",
			Website:  "https://",
			Page:     model.PageFree,
			Tags:     []string{},
		},
		ImageMode: ImageModeURL,
		GenCount:  DefaultGenCount,
	}
}

func newNewsForm() NewsForm {
	return NewsForm{
		Draft:     model.NewsArticle{Category: "Technology"},
		ImageMode: ImageModeURL,
		GenCount:  DefaultGenCount,
	}
}

func validImageMode(m ImageMode) bool {
	return m == ImageModeURL || m == ImageModeUpload || m == ImageModeGenerate
}

func clampGenCount(n int) int {
	if n < 1 {
		return DefaultGenCount
	}
	if n > MaxGenCount {
		return MaxGenCount
	}
	return n
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func editorialPrompt(title, description string) string {
	return fmt.Sprintf("Editorial illustration for %q. %s. High quality, modern style.", title, description)
}

// SetToolDraft replaces the tool draft. The editing target is kept.
func (w *Workspace) SetToolDraft(draft model.Tool) {
	w.mu.Lock()
	w.toolForm.Draft = draft
	w.mu.Unlock()
}

func (w *Workspace) SetToolGenInput(input string, count int) {
	w.mu.Lock()
	w.toolForm.GenInput = input
	w.toolForm.GenCount = clampGenCount(count)
	w.mu.Unlock()
}

func (w *Workspace) AddToolTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	w.mu.Lock()
	w.toolForm.Draft.Tags = append(w.toolForm.Draft.Tags, tag)
	w.mu.Unlock()
}

// SetToolImageMode switches the image input. The current image URL is left as is.
func (w *Workspace) SetToolImageMode(mode ImageMode) error {
	if !validImageMode(mode) {
		return validationError(fmt.Sprintf("unknown image mode %q", mode))
	}
	w.mu.Lock()
	w.toolForm.ImageMode = mode
	w.mu.Unlock()
	return nil
}

func (w *Workspace) UploadToolImage(mimeType string, data []byte) error {
	if !strings.HasPrefix(mimeType, "image/") || len(data) == 0 {
		return validationError("an image file is required")
	}
	w.mu.Lock()
	w.toolForm.Draft.ImageURL = dataURL(mimeType, data)
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateToolImage(ctx context.Context) error {
	w.mu.Lock()
	draft := w.toolForm.Draft
	w.mu.Unlock()

	if strings.TrimSpace(draft.Name) == "" {
		return validationError("Please enter a tool name first.")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	img, err := gen.GenerateImage(ctx, editorialPrompt(draft.Name, draft.Description), editorialImage)
	if err != nil {
		return &shell.ActionError{Action: "Error generating image", Err: err}
	}

	w.mu.Lock()
	w.toolForm.Draft.ImageURL = img.DataURL()
	w.mu.Unlock()
	return nil
}

// GenerateToolFromName drafts a full tool entry from a product name and merges it into the form.
func (w *Workspace) GenerateToolFromName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationError("a tool name is required")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	generated, err := gen.GenerateToolDetails(ctx, name)
	if err != nil {
		return &shell.ActionError{Action: "Generation failed", Err: err}
	}

	w.mu.Lock()
	w.toolForm.Draft = mergeTool(w.toolForm.Draft, *generated)
	w.toolForm.GenInput = name
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateDraftSlides(ctx context.Context) error {
	w.mu.Lock()
	draft := w.toolForm.Draft
	w.mu.Unlock()

	if strings.TrimSpace(draft.Name) == "" || strings.TrimSpace(draft.Description) == "" {
		return validationError("Please enter a name and description first.")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	slides, err := gen.GenerateToolSlides(ctx, draft)
	if err != nil {
		return &shell.ActionError{Action: "Failed to generate slides", Err: err}
	}

	w.mu.Lock()
	w.toolForm.Draft.Slides = slides
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateDraftTutorial(ctx context.Context) error {
	w.mu.Lock()
	draft := w.toolForm.Draft
	w.mu.Unlock()

	if strings.TrimSpace(draft.Name) == "" {
		return validationError("a tool name is required")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	tutorial, err := gen.GenerateToolTutorial(ctx, draft)
	if err != nil {
		return &shell.ActionError{Action: "Failed to generate tutorial", Err: err}
	}

	w.mu.Lock()
	w.toolForm.Draft.Tutorial = tutorial
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateDraftCourse(ctx context.Context) error {
	w.mu.Lock()
	draft := w.toolForm.Draft
	w.mu.Unlock()

	if strings.TrimSpace(draft.Name) == "" {
		return validationError("a tool name is required")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	course, err := gen.GenerateFullCourse(ctx, draft)
	if err != nil {
		return &shell.ActionError{Action: "Failed to generate course", Err: err}
	}

	w.mu.Lock()
	w.toolForm.Draft.Course = course
	w.mu.Unlock()
	return nil
}

// SubmitTool validates the draft, fills defaults and adds or updates the tool.
// On success the form is reset and the tool becomes the success banner.
func (w *Workspace) SubmitTool(ctx context.Context) (*model.Tool, error) {
	w.mu.Lock()
	form := w.toolForm
	w.mu.Unlock()

	if strings.TrimSpace(form.Draft.Name) == "" || strings.TrimSpace(form.Draft.Description) == "" {
		return nil, validationError("name and description are required")
	}

	tool := finalizeTool(form.Draft)
	if form.EditingID != "" {
		tool.ID = form.EditingID
		if err := w.deps.Catalog.UpdateTool(ctx, form.EditingID, &tool); err != nil {
			return nil, err
		}
	} else {
		if err := w.deps.Catalog.AddTool(ctx, &tool); err != nil {
			return nil, err
		}
	}

	w.mu.Lock()
	w.toolForm = newToolForm()
	w.lastSuccess = &Success{Kind: KindTool, Tool: &tool}
	w.mu.Unlock()
	return &tool, nil
}

func (w *Workspace) ResetToolForm() {
	w.mu.Lock()
	w.toolForm = newToolForm()
	w.lastSuccess = nil
	w.mu.Unlock()
}

// StartEditingTool loads a published tool into the form.
func (w *Workspace) StartEditingTool(ctx context.Context, id string) error {
	tool, err := w.deps.Catalog.Store().Tool(ctx, id)
	if err != nil {
		return err
	}
	if tool == nil {
		return fmt.Errorf("tool %s: %w", id, catalog.ErrNotFound)
	}

	w.mu.Lock()
	w.toolForm = newToolForm()
	w.toolForm.Draft = *tool
	w.toolForm.EditingID = tool.ID
	w.tab = TabCreate
	w.lastSuccess = nil
	w.mu.Unlock()
	return nil
}

func (w *Workspace) SetNewsDraft(draft model.NewsArticle) {
	w.mu.Lock()
	w.newsForm.Draft = draft
	w.mu.Unlock()
}

func (w *Workspace) SetNewsGenInput(input string, count int) {
	w.mu.Lock()
	w.newsForm.GenInput = input
	w.newsForm.GenCount = clampGenCount(count)
	w.mu.Unlock()
}

// AddNewsCategory registers a custom category and selects it.
func (w *Workspace) AddNewsCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationError("a category name is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, c := range w.newsCategories {
		if c == name {
			return validationError(fmt.Sprintf("category %q already exists", name))
		}
	}
	w.newsCategories = append(w.newsCategories, name)
	w.newsForm.Draft.Category = name
	return nil
}

func (w *Workspace) SetNewsImageMode(mode ImageMode) error {
	if !validImageMode(mode) {
		return validationError(fmt.Sprintf("unknown image mode %q", mode))
	}
	w.mu.Lock()
	w.newsForm.ImageMode = mode
	w.mu.Unlock()
	return nil
}

func (w *Workspace) UploadNewsImage(mimeType string, data []byte) error {
	if !strings.HasPrefix(mimeType, "image/") || len(data) == 0 {
		return validationError("an image file is required")
	}
	w.mu.Lock()
	w.newsForm.Draft.ImageURL = dataURL(mimeType, data)
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateNewsImage(ctx context.Context) error {
	w.mu.Lock()
	draft := w.newsForm.Draft
	w.mu.Unlock()

	if strings.TrimSpace(draft.Title) == "" {
		return validationError("Please enter a title first.")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	img, err := gen.GenerateImage(ctx, editorialPrompt(draft.Title, draft.Description), editorialImage)
	if err != nil {
		return &shell.ActionError{Action: "Error generating image", Err: err}
	}

	w.mu.Lock()
	w.newsForm.Draft.ImageURL = img.DataURL()
	w.mu.Unlock()
	return nil
}

func (w *Workspace) GenerateNewsFromTopic(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return validationError("a topic is required")
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	generated, err := gen.GenerateNewsDetails(ctx, topic)
	if err != nil {
		return &shell.ActionError{Action: "News generation failed", Err: err}
	}

	w.mu.Lock()
	w.newsForm.Draft = mergeNews(w.newsForm.Draft, *generated)
	w.newsForm.GenInput = topic
	w.mu.Unlock()
	return nil
}

func (w *Workspace) SubmitNews(ctx context.Context) (*model.NewsArticle, error) {
	w.mu.Lock()
	form := w.newsForm
	w.mu.Unlock()

	if strings.TrimSpace(form.Draft.Title) == "" || strings.TrimSpace(form.Draft.Content) == "" {
		return nil, validationError("title and content are required")
	}

	article := finalizeNews(form.Draft, w.now())
	if form.EditingID != "" {
		article.ID = form.EditingID
		if err := w.deps.Catalog.UpdateNews(ctx, form.EditingID, &article); err != nil {
			return nil, err
		}
	} else {
		if err := w.deps.Catalog.AddNews(ctx, &article); err != nil {
			return nil, err
		}
	}

	w.mu.Lock()
	w.newsForm = newNewsForm()
	w.lastSuccess = &Success{Kind: KindNews, News: &article}
	w.mu.Unlock()
	return &article, nil
}

func (w *Workspace) ResetNewsForm() {
	w.mu.Lock()
	w.newsForm = newNewsForm()
	w.mu.Unlock()
}

func (w *Workspace) StartEditingNews(ctx context.Context, id string) error {
	article, err := w.deps.Catalog.Store().Article(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("news %s: %w", id, catalog.ErrNotFound)
	}

	w.mu.Lock()
	w.newsForm = newNewsForm()
	w.newsForm.Draft = *article
	w.newsForm.EditingID = article.ID
	w.tab = TabNews
	w.lastSuccess = nil
	w.mu.Unlock()
	return nil
}

func finalizeTool(d model.Tool) model.Tool {
	t := d
	t.Name = strings.TrimSpace(d.Name)
	if t.Category == "" {
		t.Category = "Uncategorized"
	}
	if t.Price == "" {
		t.Price = "Free"
	}
	if t.Website == "" {
		t.Website = "#"
	}
	if t.ImageURL == "" {
		t.ImageURL = model.PlaceholderToolImage(t.Name)
	}
	if t.Page == "" {
		t.Page = model.PageFree
	}
	t.Tags = nonNil(t.Tags)
	t.Features = nonNil(t.Features)
	t.UseCases = nonNil(t.UseCases)
	t.Pros = nonNil(t.Pros)
	t.Cons = nonNil(t.Cons)
	return t
}

func finalizeNews(d model.NewsArticle, now time.Time) model.NewsArticle {
	a := d
	a.Title = strings.TrimSpace(d.Title)
	if a.Source == "" {
		a.Source = "VETORRE Blog"
	}
	if a.Category == "" {
		a.Category = "General"
	}
	if a.ImageURL == "" {
		a.ImageURL = model.PlaceholderNewsImage(a.Title)
	}
	a.Date = now
	return a
}

// mergeTool overlays the non-empty fields of generated onto draft.
func mergeTool(draft, generated model.Tool) model.Tool {
	out := draft
	setString(&out.Name, generated.Name)
	setString(&out.Description, generated.Description)
	setString(&out.Category, generated.Category)
	setString(&out.Price, generated.Price)
	setString(&out.Website, generated.Website)
	setString(&out.ImageURL, generated.ImageURL)
	setString(&out.HowToUse, generated.HowToUse)
	setSlice(&out.Tags, generated.Tags)
	setSlice(&out.Features, generated.Features)
	setSlice(&out.UseCases, generated.UseCases)
	setSlice(&out.Pros, generated.Pros)
	setSlice(&out.Cons, generated.Cons)
	return out
}

func mergeNews(draft, generated model.NewsArticle) model.NewsArticle {
	out := draft
	setString(&out.Title, generated.Title)
	setString(&out.Description, generated.Description)
	setString(&out.Content, generated.Content)
	setString(&out.Category, generated.Category)
	setString(&out.Source, generated.Source)
	setString(&out.ImageURL, generated.ImageURL)
	return out
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setSlice(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
