package handler

import (
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
)

type ToolListResponse struct {
	Tools  []model.Tool `json:"tools"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type NewsListResponse struct {
	News   []model.NewsArticle `json:"news"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type MeResponse struct {
	State          shell.State    `json:"state"`
	Profile        *model.Profile `json:"profile,omitempty"`
	CanAccessAdmin bool           `json:"canAccessAdmin"`
	PremiumAccess  bool           `json:"premiumAccess"`
	AIAvailable    bool           `json:"aiAvailable"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}

type GenInputRequest struct {
	Input string `json:"input"`
	Count int    `json:"count"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type ImageModeRequest struct {
	Mode string `json:"mode"`
}

// ImageUploadRequest carries a base64 image body.
type ImageUploadRequest struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type CountRequest struct {
	Count int `json:"count"`
}

type DeleteRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type RSSFetchRequest struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type PublishAllResponse struct {
	Published int    `json:"published"`
	Error     string `json:"error,omitempty"`
}

type SchemaResponse struct {
	SQL string `json:"sql"`
}
