package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/google/uuid"
)

// Generator drafts directory content. Every call is one round trip to the model.
type Generator struct {
	text   Completer
	images ImageGenerator
	now    func() time.Time
}

// NewGenerator builds a generator. images may be nil when the backend cannot draw.
func NewGenerator(text Completer, images ImageGenerator) *Generator {
	return &Generator{text: text, images: images, now: time.Now}
}

// FromKeys picks the text backend for the configured provider. Images are only
// available with an OpenAI key. It returns nil when neither key is set.
func FromKeys(provider, openAIKey, anthropicKey string) *Generator {
	if openAIKey == "" && anthropicKey == "" {
		return nil
	}

	var images ImageGenerator
	var openAI *OpenAIClient
	if openAIKey != "" {
		openAI = NewOpenAIClient(openAIKey)
		images = openAI
	}

	var text Completer
	switch {
	case provider == "anthropic" && anthropicKey != "":
		text = NewAnthropicClient(anthropicKey)
	case openAI != nil:
		text = openAI
	default:
		text = NewAnthropicClient(anthropicKey)
	}

	return NewGenerator(text, images)
}

// ModelName identifies the text backend for logs and metrics.
func (g *Generator) ModelName() string {
	if g == nil || g.text == nil {
		return ""
	}
	return g.text.Name()
}

type toolDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Tags        []string `json:"tags"`
	Website     string   `json:"website"`
	Features    []string `json:"features"`
	UseCases    []string `json:"useCases"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	HowToUse    string   `json:"howToUse"`
}

func (d toolDraft) toTool() model.Tool {
	return model.Tool{
		ID:          uuid.NewString(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Tags:        d.Tags,
		Website:     d.Website,
		ImageURL:    model.PlaceholderToolImage(d.Name),
		Features:    d.Features,
		UseCases:    d.UseCases,
		Pros:        d.Pros,
		Cons:        d.Cons,
		HowToUse:    d.HowToUse,
		Page:        model.PageFree,
	}
}

type newsDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Source      string `json:"source"`
}

func (d newsDraft) toArticle(now time.Time) model.NewsArticle {
	return model.NewsArticle{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Category:    d.Category,
		Source:      d.Source,
		ImageURL:    model.PlaceholderNewsImage(d.Title),
		Date:        now,
	}
}

func (g *Generator) ExtractToolFromRSS(ctx context.Context, title, description string) (*model.Tool, error) {
	var draft toolDraft
	user := fmt.Sprintf("Title: %s\nDescription: %s", title, description)
	if err := g.completeJSON(ctx, extractToolPrompt, user, &draft); err != nil {
		return nil, err
	}
	tool := draft.toTool()
	return &tool, nil
}

func (g *Generator) ExtractNewsFromRSS(ctx context.Context, title, description string) (*model.NewsArticle, error) {
	var draft newsDraft
	user := fmt.Sprintf("Title: %s\nDescription: %s", title, description)
	if err := g.completeJSON(ctx, extractNewsPrompt, user, &draft); err != nil {
		return nil, err
	}
	article := draft.toArticle(g.now())
	return &article, nil
}

// GenerateDirectoryTools proposes n candidate tools, seeded by trending headlines.
func (g *Generator) GenerateDirectoryTools(ctx context.Context, n int, headlines []string) ([]model.Tool, error) {
	var parsed struct {
		Tools []toolDraft `json:"tools"`
	}
	if err := g.completeJSON(ctx, fmt.Sprintf(directoryToolsPrompt, n), formatHeadlines(headlines), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Tools) == 0 {
		return nil, fmt.Errorf("no tools were generated: %w", ErrEmptyResult)
	}

	tools := make([]model.Tool, 0, len(parsed.Tools))
	for _, d := range parsed.Tools {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		tools = append(tools, d.toTool())
	}
	return tools, nil
}

func (g *Generator) GenerateToolDetails(ctx context.Context, name string) (*model.Tool, error) {
	var draft toolDraft
	if err := g.completeJSON(ctx, toolDetailsPrompt, "Tool: "+name, &draft); err != nil {
		return nil, err
	}
	if draft.Name == "" {
		draft.Name = name
	}
	tool := draft.toTool()
	return &tool, nil
}

func (g *Generator) GenerateDirectoryNews(ctx context.Context, n int, headlines []string) ([]model.NewsArticle, error) {
	var parsed struct {
		Articles []newsDraft `json:"articles"`
	}
	if err := g.completeJSON(ctx, fmt.Sprintf(directoryNewsPrompt, n), formatHeadlines(headlines), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Articles) == 0 {
		return nil, fmt.Errorf("no articles were generated: %w", ErrEmptyResult)
	}

	now := g.now()
	articles := make([]model.NewsArticle, 0, len(parsed.Articles))
	for _, d := range parsed.Articles {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		articles = append(articles, d.toArticle(now))
	}
	return articles, nil
}

func (g *Generator) GenerateNewsDetails(ctx context.Context, topic string) (*model.NewsArticle, error) {
	var draft newsDraft
	if err := g.completeJSON(ctx, newsDetailsPrompt, "Topic: "+topic, &draft); err != nil {
		return nil, err
	}
	article := draft.toArticle(g.now())
	return &article, nil
}

func (g *Generator) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (*Image, error) {
	if g == nil || g.images == nil {
		return nil, ErrUnavailable
	}
	return g.images.GenerateImage(ctx, prompt, opts)
}

func (g *Generator) GenerateToolSlides(ctx context.Context, tool model.Tool) ([]model.Slide, error) {
	var parsed struct {
		Slides []model.Slide `json:"slides"`
	}
	if err := g.completeJSON(ctx, slidesPrompt, describeTool(tool), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Slides) == 0 {
		return nil, fmt.Errorf("no slides were generated: %w", ErrEmptyResult)
	}
	return parsed.Slides, nil
}

func (g *Generator) GenerateToolTutorial(ctx context.Context, tool model.Tool) ([]model.TutorialSection, error) {
	var parsed struct {
		Sections []model.TutorialSection `json:"sections"`
	}
	if err := g.completeJSON(ctx, tutorialPrompt, describeTool(tool), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Sections) == 0 {
		return nil, fmt.Errorf("no tutorial content was generated: %w", ErrEmptyResult)
	}
	for i := range parsed.Sections {
		if parsed.Sections[i].ImageURL == "" {
			parsed.Sections[i].ImageURL = model.PlaceholderNewsImage(fmt.Sprintf("%s-%d", tool.Name, i+1))
		}
	}
	return parsed.Sections, nil
}

func (g *Generator) GenerateFullCourse(ctx context.Context, tool model.Tool) (*model.Course, error) {
	var course model.Course
	if err := g.completeJSON(ctx, coursePrompt, describeTool(tool), &course); err != nil {
		return nil, err
	}
	if len(course.Modules) == 0 {
		return nil, fmt.Errorf("generated course is empty or invalid: %w", ErrEmptyResult)
	}
	return &course, nil
}

// AnalyzeToolTrends returns a markdown report about the directory.
func (g *Generator) AnalyzeToolTrends(ctx context.Context, tools []model.Tool) (string, error) {
	if g == nil || g.text == nil {
		return "", ErrUnavailable
	}

	var sb strings.Builder
	for _, t := range tools {
		sb.WriteString(fmt.Sprintf("- %s | %s | %s\n", t.Name, t.Category, t.Price))
	}

	report, err := g.text.Complete(ctx, trendsPrompt, sb.String())
	if err != nil {
		return "", err
	}
	report = strings.TrimSpace(report)
	if report == "" {
		return "", ErrEmptyResult
	}
	return report, nil
}

func (g *Generator) completeJSON(ctx context.Context, system, user string, dst any) error {
	if g == nil || g.text == nil {
		return ErrUnavailable
	}

	content, err := g.text.Complete(ctx, system, user)
	if err != nil {
		return err
	}

	content = cleanJSONResponse(content)
	if content == "" {
		return ErrEmptyResult
	}

	if err := json.Unmarshal([]byte(content), dst); err != nil {
		return fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}
	return nil
}

func describeTool(t model.Tool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tool: %s\nCategory: %s\nPrice: %s\nWebsite: %s\nDescription: %s\n",
		t.Name, t.Category, t.Price, t.Website, t.Description))
	if len(t.Features) > 0 {
		sb.WriteString("Features: " + strings.Join(t.Features, "; ") + "\n")
	}
	if len(t.UseCases) > 0 {
		sb.WriteString("Use cases: " + strings.Join(t.UseCases, "; ") + "\n")
	}
	if t.HowToUse != "" {
		sb.WriteString("How to use: " + t.HowToUse + "\n")
	}
	return sb.String()
}

func formatHeadlines(headlines []string) string {
	if len(headlines) == 0 {
		return "No trending headlines available; use your own knowledge of the current AI landscape."
	}

	var sb strings.Builder
	sb.WriteString("Trending headlines:\n")
	for i, h := range headlines {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, h))
	}
	return sb.String()
}
