package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/pkg/feed"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotQueued       = errors.New("item is not in the review queue")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// ValidationError is a user-facing rejection raised before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(msg string) error {
	return &ValidationError{Msg: msg}
}

type Tab string

const (
	TabCreate   Tab = "create"
	TabNews     Tab = "news"
	TabRSS      Tab = "rss"
	TabManage   Tab = "manage"
	TabAnalyze  Tab = "analyze"
	TabDatabase Tab = "database"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabCreate, TabNews, TabRSS, TabManage, TabAnalyze, TabDatabase}

func validTab(t Tab) bool {
	for _, tab := range Tabs {
		if tab == t {
			return true
		}
	}
	return false
}

// Catalog is the part of the application shell the dashboard drives.
type Catalog interface {
	AddTool(ctx context.Context, tool *model.Tool) error
	UpdateTool(ctx context.Context, id string, tool *model.Tool) error
	DeleteTool(ctx context.Context, id string) error
	AddNews(ctx context.Context, article *model.NewsArticle) error
	UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error
	DeleteNews(ctx context.Context, id string) error
	Store() catalog.Store
	Headlines(ctx context.Context) []string
}

type Generator interface {
	ExtractToolFromRSS(ctx context.Context, title, description string) (*model.Tool, error)
	ExtractNewsFromRSS(ctx context.Context, title, description string) (*model.NewsArticle, error)
	GenerateDirectoryTools(ctx context.Context, n int, headlines []string) ([]model.Tool, error)
	GenerateToolDetails(ctx context.Context, name string) (*model.Tool, error)
	GenerateDirectoryNews(ctx context.Context, n int, headlines []string) ([]model.NewsArticle, error)
	GenerateNewsDetails(ctx context.Context, topic string) (*model.NewsArticle, error)
	GenerateImage(ctx context.Context, prompt string, opts llm.ImageOptions) (*llm.Image, error)
	GenerateToolSlides(ctx context.Context, tool model.Tool) ([]model.Slide, error)
	GenerateToolTutorial(ctx context.Context, tool model.Tool) ([]model.TutorialSection, error)
	GenerateFullCourse(ctx context.Context, tool model.Tool) (*model.Course, error)
	AnalyzeToolTrends(ctx context.Context, tools []model.Tool) (string, error)
}

type FeedFetcher interface {
	Fetch(ctx context.Context, url string, count int) ([]feed.Item, error)
}

type Deps struct {
	Catalog   Catalog
	Generator Generator
	Feeds     FeedFetcher
}

// Workspace is one administrator's dashboard session. All state is held in
// process; slow calls run without the lock and their results are applied after.
type Workspace struct {
	deps Deps
	now  func() time.Time

	mu             sync.Mutex
	tab            Tab
	toolForm       ToolForm
	newsForm       NewsForm
	newsCategories []string
	toolQueue      []model.Tool
	newsQueue      []model.NewsArticle
	rss            RSSState
	preview        *Preview
	pendingDelete  *DeleteTarget
	lastSuccess    *Success
	report         string
}

func NewWorkspace(deps Deps) *Workspace {
	return &Workspace{
		deps:           deps,
		now:            time.Now,
		tab:            TabCreate,
		toolForm:       newToolForm(),
		newsForm:       newNewsForm(),
		newsCategories: append([]string(nil), model.NewsCategories...),
		toolQueue:      []model.Tool{},
		newsQueue:      []model.NewsArticle{},
		rss:            RSSState{URL: feed.DefaultURL, Count: feed.DefaultCount, Items: []feed.Item{}},
	}
}

type Preview struct {
	Kind string             `json:"kind"`
	Tool *model.Tool        `json:"tool,omitempty"`
	News *model.NewsArticle `json:"news,omitempty"`
}

type Success struct {
	Kind string             `json:"kind"`
	Tool *model.Tool        `json:"tool,omitempty"`
	News *model.NewsArticle `json:"news,omitempty"`
}

// View is a point-in-time copy of the workspace for rendering.
type View struct {
	Tab            Tab                 `json:"tab"`
	ToolForm       ToolForm            `json:"toolForm"`
	NewsForm       NewsForm            `json:"newsForm"`
	NewsCategories []string            `json:"newsCategories"`
	ToolCategories []string            `json:"toolCategories"`
	ToolQueue      []model.Tool        `json:"toolQueue"`
	NewsQueue      []model.NewsArticle `json:"newsQueue"`
	RSS            RSSState            `json:"rss"`
	Preview        *Preview            `json:"preview,omitempty"`
	PendingDelete  *DeleteTarget       `json:"pendingDelete,omitempty"`
	LastSuccess    *Success            `json:"lastSuccess,omitempty"`
	Report         string              `json:"report,omitempty"`
	AIAvailable    bool                `json:"aiAvailable"`
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	return View{
		Tab:            w.tab,
		ToolForm:       w.toolForm,
		NewsForm:       w.newsForm,
		NewsCategories: append([]string(nil), w.newsCategories...),
		ToolCategories: model.ToolCategories,
		ToolQueue:      append([]model.Tool{}, w.toolQueue...),
		NewsQueue:      append([]model.NewsArticle{}, w.newsQueue...),
		RSS:            w.rss,
		Preview:        w.preview,
		PendingDelete:  w.pendingDelete,
		LastSuccess:    w.lastSuccess,
		Report:         w.report,
		AIAvailable:    w.deps.Generator != nil,
	}
}

func (w *Workspace) SetTab(tab Tab) error {
	if !validTab(tab) {
		return validationError(fmt.Sprintf("unknown tab %q", tab))
	}
	w.mu.Lock()
	w.tab = tab
	w.mu.Unlock()
	return nil
}

func (w *Workspace) ClosePreview() {
	w.mu.Lock()
	w.preview = nil
	w.mu.Unlock()
}

func (w *Workspace) generator() (Generator, error) {
	if w.deps.Generator == nil {
		return nil, llm.ErrUnavailable
	}
	return w.deps.Generator, nil
}

// Workspaces keeps one workspace per administrator.
type Workspaces struct {
	deps Deps

	mu sync.Mutex
	m  map[string]*Workspace
}

func NewWorkspaces(deps Deps) *Workspaces {
	return &Workspaces{deps: deps, m: make(map[string]*Workspace)}
}

func (r *Workspaces) Get(profileID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.m[profileID]
	if !ok {
		w = NewWorkspace(r.deps)
		r.m[profileID] = w
	}
	return w
}

// Drop discards a workspace, e.g. when its administrator signs out.
func (r *Workspaces) Drop(profileID string) {
	r.mu.Lock()
	delete(r.m, profileID)
	r.mu.Unlock()
}
