package model

import (
	"net/url"
	"strings"
	"time"
)

const (
	PageFree = "free-tools"
	PagePaid = "paid-tools"
	PageTop  = "top-tools"
)

// ToolCategories are the categories offered by the admin form. Tools may carry
// other free-text categories.
var ToolCategories = []string{"Writing", "Image", "Video", "Audio", "Coding", "Business"}

type Tool struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Price       string            `json:"price"`
	Tags        []string          `json:"tags"`
	Website     string            `json:"website"`
	ImageURL    string            `json:"imageUrl"`
	Features    []string          `json:"features,omitempty"`
	UseCases    []string          `json:"useCases,omitempty"`
	Pros        []string          `json:"pros,omitempty"`
	Cons        []string          `json:"cons,omitempty"`
	HowToUse    string            `json:"howToUse,omitempty"`
	Slides      []Slide           `json:"slides,omitempty"`
	Tutorial    []TutorialSection `json:"tutorial,omitempty"`
	Course      *Course           `json:"course,omitempty"`
	Page        string            `json:"page,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type TutorialSection struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Course struct {
	Title         string         `json:"title"`
	TotalDuration string         `json:"totalDuration"`
	Modules       []CourseModule `json:"modules"`
}

type CourseModule struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Duration string `json:"duration,omitempty"`
}

// DisplayPrice shortens long price labels for cards.
func (t Tool) DisplayPrice() string {
	if len(t.Price) <= 15 {
		return t.Price
	}

	lower := strings.ToLower(t.Price)
	switch {
	case strings.Contains(lower, "freemium"):
		return "Freemium"
	case strings.Contains(lower, "free trial"):
		return "Free Trial"
	case strings.Contains(lower, "free"):
		return "Free"
	case strings.Contains(lower, "paid"), strings.Contains(t.Price, "$"):
		return "Paid"
	}
	return "Check Site"
}

// PageOrDefault returns the display page, treating an empty page as free-tools.
func (t Tool) PageOrDefault() string {
	if t.Page == "" {
		return PageFree
	}
	return t.Page
}

// PlaceholderToolImage is the stock card image used when a tool has none.
func PlaceholderToolImage(seed string) string {
	return "https://picsum.photos/seed/" + placeholderSeed(seed) + "/400/250"
}

// PlaceholderNewsImage is the stock banner used when an article has none.
func PlaceholderNewsImage(seed string) string {
	return "https://picsum.photos/seed/" + placeholderSeed(seed) + "/800/400"
}

func placeholderSeed(seed string) string {
	seed = strings.Join(strings.Fields(seed), "")
	if seed == "" {
		return "preview"
	}
	return url.PathEscape(seed)
}
