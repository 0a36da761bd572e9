package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when no generative backend is configured.
	ErrUnavailable = errors.New("generative AI is not configured")
	// ErrEmptyResult is returned when the model answers with nothing usable.
	ErrEmptyResult = errors.New("model returned no content")
	// ErrInvalidImageOptions rejects aspect ratios or resolutions we cannot map.
	ErrInvalidImageOptions = errors.New("invalid image options")
)

// Completer sends one system+user prompt pair and returns the raw text answer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// ImageGenerator renders a prompt into an image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (*Image, error)
}

type ImageOptions struct {
	AspectRatio string // "1:1", "16:9", "9:16", "4:3", "3:4"
	Resolution  string // "1K", "2K"
}

type Image struct {
	MIMEType string
	Data     string // base64
}

// DataURL renders the image inline, the form stored in imageUrl fields.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}
