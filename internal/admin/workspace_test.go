package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
	"github.com/ANOUAR90ESS/veto7/pkg/feed"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"

	"github.com/go-playground/assert/v2"
)

// flakyStore fails AddTool/AddNews for the listed names.
type flakyStore struct {
	*catalog.MemoryStore

	mu   sync.Mutex
	fail map[string]bool
	adds map[string]int
}

func newFlakyStore(fail ...string) *flakyStore {
	s := &flakyStore{MemoryStore: catalog.NewMemoryStore(), fail: map[string]bool{}, adds: map[string]int{}}
	for _, name := range fail {
		s.fail[name] = true
	}
	return s
}

func (s *flakyStore) AddTool(ctx context.Context, tool *model.Tool) error {
	s.mu.Lock()
	fail := s.fail[tool.Name]
	if !fail {
		s.adds[tool.Name]++
	}
	s.mu.Unlock()
	if fail {
		return errors.New("insert rejected")
	}
	return s.MemoryStore.AddTool(ctx, tool)
}

func (s *flakyStore) AddNews(ctx context.Context, article *model.NewsArticle) error {
	s.mu.Lock()
	fail := s.fail[article.Title]
	if !fail {
		s.adds[article.Title]++
	}
	s.mu.Unlock()
	if fail {
		return errors.New("insert rejected")
	}
	return s.MemoryStore.AddNews(ctx, article)
}

type fakeGenerator struct {
	tools    []model.Tool
	news     []model.NewsArticle
	err      error
	imgCalls int
}

func (f *fakeGenerator) ExtractToolFromRSS(ctx context.Context, title, description string) (*model.Tool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Tool{Name: title, Description: description}, nil
}

func (f *fakeGenerator) ExtractNewsFromRSS(ctx context.Context, title, description string) (*model.NewsArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.NewsArticle{Description: "Summary of " + title}, nil
}

func (f *fakeGenerator) GenerateDirectoryTools(ctx context.Context, n int, headlines []string) ([]model.Tool, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.tools) > n {
		return f.tools[:n], nil
	}
	return f.tools, nil
}

func (f *fakeGenerator) GenerateToolDetails(ctx context.Context, name string) (*model.Tool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Tool{Name: name, Description: name + " writes copy.", Tags: []string{"copy"}}, nil
}

func (f *fakeGenerator) GenerateDirectoryNews(ctx context.Context, n int, headlines []string) ([]model.NewsArticle, error) {
	return f.news, f.err
}

func (f *fakeGenerator) GenerateNewsDetails(ctx context.Context, topic string) (*model.NewsArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.NewsArticle{Title: topic, Content: "Body about " + topic}, nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string, opts llm.ImageOptions) (*llm.Image, error) {
	f.imgCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Image{MIMEType: "image/png", Data: "aGVsbG8="}, nil
}

func (f *fakeGenerator) GenerateToolSlides(ctx context.Context, tool model.Tool) ([]model.Slide, error) {
	return []model.Slide{{Title: tool.Name}}, f.err
}

func (f *fakeGenerator) GenerateToolTutorial(ctx context.Context, tool model.Tool) ([]model.TutorialSection, error) {
	return []model.TutorialSection{{Title: "Setup"}}, f.err
}

func (f *fakeGenerator) GenerateFullCourse(ctx context.Context, tool model.Tool) (*model.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Course{Title: tool.Name + " course"}, nil
}

func (f *fakeGenerator) AnalyzeToolTrends(ctx context.Context, tools []model.Tool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "# Trends", nil
}

type fakeFeeds struct {
	items []feed.Item
	err   error
	count int
}

func (f *fakeFeeds) Fetch(ctx context.Context, url string, count int) ([]feed.Item, error) {
	f.count = count
	return f.items, f.err
}

func newTestWorkspace(store catalog.Store, gen Generator) *Workspace {
	w := NewWorkspace(Deps{
		Catalog:   shell.New(shell.Options{Store: store}),
		Generator: gen,
		Feeds:     &fakeFeeds{},
	})
	w.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return w
}

func TestNewWorkspace_Defaults(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)
	v := w.View()

	assert.Equal(t, TabCreate, v.Tab)
	assert.Equal(t, "Writing", v.ToolForm.Draft.Category)
	assert.Equal(t, "Freemium", v.ToolForm.Draft.Price)
	assert.Equal(t, "https://", v.ToolForm.Draft.Website)
	assert.Equal(t, model.PageFree, v.ToolForm.Draft.Page)
	assert.Equal(t, "Technology", v.NewsForm.Draft.Category)
	assert.Equal(t, feed.DefaultURL, v.RSS.URL)
	assert.Equal(t, feed.DefaultCount, v.RSS.Count)
	assert.Equal(t, false, v.AIAvailable)
}

func TestSetTab(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)

	assert.Equal(t, nil, w.SetTab(TabDatabase))
	assert.Equal(t, TabDatabase, w.View().Tab)

	err := w.SetTab("billing")
	assert.Equal(t, true, errors.Is(err, ErrValidation))
	assert.Equal(t, TabDatabase, w.View().Tab)
}

func TestImageModeSwitchKeepsURL(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)
	w.SetToolDraft(model.Tool{Name: "Jasper", ImageURL: "https://cdn.example.com/jasper.png"})
	w.SetNewsDraft(model.NewsArticle{Title: "T", ImageURL: "https://cdn.example.com/t.png"})

	for _, mode := range []ImageMode{ImageModeUpload, ImageModeGenerate, ImageModeURL} {
		assert.Equal(t, nil, w.SetToolImageMode(mode))
		assert.Equal(t, nil, w.SetNewsImageMode(mode))

		v := w.View()
		assert.Equal(t, mode, v.ToolForm.ImageMode)
		assert.Equal(t, "https://cdn.example.com/jasper.png", v.ToolForm.Draft.ImageURL)
		assert.Equal(t, "https://cdn.example.com/t.png", v.NewsForm.Draft.ImageURL)
	}

	assert.Equal(t, true, errors.Is(w.SetToolImageMode("camera"), ErrValidation))
}

func TestUploadToolImage(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)

	assert.Equal(t, nil, w.UploadToolImage("image/png", []byte("hello")))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", w.View().ToolForm.Draft.ImageURL)

	assert.Equal(t, true, errors.Is(w.UploadToolImage("text/plain", []byte("x")), ErrValidation))
}

func TestGenerateToolImage(t *testing.T) {
	gen := &fakeGenerator{}
	w := newTestWorkspace(catalog.NewMemoryStore(), gen)

	err := w.GenerateToolImage(context.Background())
	assert.Equal(t, true, errors.Is(err, ErrValidation))
	assert.Equal(t, 0, gen.imgCalls)

	w.SetToolDraft(model.Tool{Name: "Jasper"})
	assert.Equal(t, nil, w.GenerateToolImage(context.Background()))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", w.View().ToolForm.Draft.ImageURL)

	gen.err = errors.New("quota exceeded")
	err = w.GenerateToolImage(context.Background())
	assert.Equal(t, "Error generating image: quota exceeded", err.Error())
}

func TestGenerate_NoGenerator(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)

	err := w.GenerateToolFromName(context.Background(), "Jasper")
	assert.Equal(t, true, errors.Is(err, llm.ErrUnavailable))

	w.SetNewsDraft(model.NewsArticle{Title: "Launch"})
	err = w.GenerateNewsImage(context.Background())
	assert.Equal(t, true, errors.Is(err, llm.ErrUnavailable))
}

func TestGenerateToolFromName_MergesIntoDraft(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), &fakeGenerator{})
	w.SetToolDraft(model.Tool{Category: "Writing", Price: "Freemium", ImageURL: "https://cdn.example.com/keep.png"})

	err := w.GenerateToolFromName(context.Background(), "  Jasper ")

	assert.Equal(t, nil, err)
	d := w.View().ToolForm.Draft
	assert.Equal(t, "Jasper", d.Name)
	assert.Equal(t, "Jasper writes copy.", d.Description)
	assert.Equal(t, "Writing", d.Category)
	assert.Equal(t, "https://cdn.example.com/keep.png", d.ImageURL)
	assert.Equal(t, []string{"copy"}, d.Tags)
}

func TestGenerateDraftSlides_RequiresNameAndDescription(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), &fakeGenerator{})
	w.SetToolDraft(model.Tool{Name: "Jasper"})

	err := w.GenerateDraftSlides(context.Background())
	assert.Equal(t, true, errors.Is(err, ErrValidation))

	w.SetToolDraft(model.Tool{Name: "Jasper", Description: "Copy"})
	assert.Equal(t, nil, w.GenerateDraftSlides(context.Background()))
	assert.Equal(t, 1, len(w.View().ToolForm.Draft.Slides))
}

func TestSubmitTool(t *testing.T) {
	tests := []struct {
		name    string
		draft   model.Tool
		wantErr bool
	}{
		{name: "missing name", draft: model.Tool{Description: "d"}, wantErr: true},
		{name: "missing description", draft: model.Tool{Name: "n"}, wantErr: true},
		{name: "blank name", draft: model.Tool{Name: "   ", Description: "d"}, wantErr: true},
		{name: "valid", draft: model.Tool{Name: "Jasper", Description: "Copy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := catalog.NewMemoryStore()
			w := newTestWorkspace(store, nil)
			w.SetToolDraft(tt.draft)

			tool, err := w.SubmitTool(context.Background())

			tools, _ := store.Tools(context.Background())
			if tt.wantErr {
				assert.Equal(t, true, errors.Is(err, ErrValidation))
				assert.Equal(t, 0, len(tools))
				return
			}
			assert.Equal(t, nil, err)
			assert.Equal(t, 1, len(tools))
			assert.Equal(t, "Uncategorized", tool.Category)
			assert.Equal(t, "Free", tool.Price)
			assert.Equal(t, "#", tool.Website)
			assert.Equal(t, model.PlaceholderToolImage("Jasper"), tool.ImageURL)
			assert.Equal(t, []string{}, tool.Tags)
		})
	}
}

func TestSubmitTool_ResetsFormAndSetsBanner(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)
	w.SetToolDraft(model.Tool{Name: "Jasper", Description: "Copy", Category: "Writing"})

	_, err := w.SubmitTool(context.Background())

	assert.Equal(t, nil, err)
	v := w.View()
	assert.Equal(t, "", v.ToolForm.Draft.Name)
	assert.Equal(t, "Writing", v.ToolForm.Draft.Category)
	assert.Equal(t, KindTool, v.LastSuccess.Kind)
	assert.Equal(t, "Jasper", v.LastSuccess.Tool.Name)
}

func TestSubmitTool_UpdatesWhenEditing(t *testing.T) {
	store := catalog.NewMemoryStore()
	existing := &model.Tool{Name: "Old", Description: "d"}
	store.AddTool(context.Background(), existing)

	w := newTestWorkspace(store, nil)
	assert.Equal(t, nil, w.StartEditingTool(context.Background(), existing.ID))

	d := w.View().ToolForm.Draft
	d.Name = "New"
	w.SetToolDraft(d)
	_, err := w.SubmitTool(context.Background())

	assert.Equal(t, nil, err)
	tools, _ := store.Tools(context.Background())
	assert.Equal(t, 1, len(tools))
	assert.Equal(t, "New", tools[0].Name)
	assert.Equal(t, existing.ID, tools[0].ID)
}

func TestStartEditingTool_Unknown(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)

	err := w.StartEditingTool(context.Background(), "missing")

	assert.Equal(t, true, errors.Is(err, catalog.ErrNotFound))
}

func TestSubmitTool_StoreErrorKeepsForm(t *testing.T) {
	w := newTestWorkspace(newFlakyStore("Jasper"), nil)
	w.SetToolDraft(model.Tool{Name: "Jasper", Description: "Copy"})

	_, err := w.SubmitTool(context.Background())

	assert.Equal(t, true, strings.HasPrefix(err.Error(), "Failed to save tool: "))
	assert.Equal(t, "Jasper", w.View().ToolForm.Draft.Name)
}

func TestAddNewsCategory(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)

	assert.Equal(t, nil, w.AddNewsCategory("Policy"))
	v := w.View()
	assert.Equal(t, "Policy", v.NewsForm.Draft.Category)
	assert.Equal(t, "Policy", v.NewsCategories[len(v.NewsCategories)-1])

	assert.Equal(t, true, errors.Is(w.AddNewsCategory("Policy"), ErrValidation))
	assert.Equal(t, true, errors.Is(w.AddNewsCategory(" "), ErrValidation))
}

func TestSubmitNews_Defaults(t *testing.T) {
	store := catalog.NewMemoryStore()
	w := newTestWorkspace(store, nil)
	w.SetNewsDraft(model.NewsArticle{Title: "Launch", Content: "Body"})

	article, err := w.SubmitNews(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, "VETORRE Blog", article.Source)
	assert.Equal(t, "General", article.Category)
	assert.Equal(t, model.PlaceholderNewsImage("Launch"), article.ImageURL)
	assert.Equal(t, w.now(), article.Date)

	news, _ := store.News(context.Background())
	assert.Equal(t, 1, len(news))
}

func TestSubmitNews_RequiresTitleAndContent(t *testing.T) {
	w := newTestWorkspace(catalog.NewMemoryStore(), nil)
	w.SetNewsDraft(model.NewsArticle{Title: "Launch"})

	_, err := w.SubmitNews(context.Background())

	assert.Equal(t, true, errors.Is(err, ErrValidation))
}

func TestWorkspaces_PerProfile(t *testing.T) {
	reg := NewWorkspaces(Deps{Catalog: shell.New(shell.Options{Store: catalog.NewMemoryStore()})})

	a := reg.Get("admin-1")
	assert.Equal(t, true, a == reg.Get("admin-1"))
	assert.Equal(t, false, a == reg.Get("admin-2"))

	a.SetTab(TabRSS)
	reg.Drop("admin-1")
	assert.Equal(t, TabCreate, reg.Get("admin-1").View().Tab)
}
