package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/go-playground/assert/v2"
)

func TestFinnHubFetch(t *testing.T) {
	payload := []map[string]interface{}{
		{
			"id":       7001,
			"headline": "OpenAI launches a new reasoning model",
			"summary":  "The model targets coding workloads.",
			"url":      "https://example.com/openai",
			"datetime": 1772103720,
			"source":   "Reuters",
		},
		{
			"id":       7002,
			"headline": "Oil prices slip on supply data",
			"url":      "https://example.com/oil",
			"datetime": 1772103000,
			"source":   "Reuters",
		},
		{
			"id":       7003,
			"headline": "Nvidia earnings beat on data center demand",
			"url":      "https://example.com/nvda",
			"datetime": 1772102000,
			"source":   "CNBC",
		},
	}

	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Finnhub-Token")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", "test-key")
	cfg.HTTPClient = &http.Client{Transport: &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}}
	source := newFinnHubSource(cfg)

	headlines, err := source.Fetch(context.Background(), 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, 2, len(headlines))

	h := headlines[0]
	assert.Equal(t, "OpenAI launches a new reasoning model", h.Title)
	assert.Equal(t, "The model targets coding workloads.", h.Summary)
	assert.Equal(t, "https://example.com/openai", h.URL)
	assert.Equal(t, "Reuters", h.Publisher)
	assert.Equal(t, "FinnHub", h.Source)
	assert.NotEqual(t, time.Time{}, h.PublishedAt)
	assert.Equal(t, "Nvidia earnings beat on data center demand", headlines[1].Title)
}

func TestFinnHubFetchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "headline": "AI chip startup raises"},
			{"id": 2, "headline": "Anthropic expands Claude"},
		})
	}))
	defer srv.Close()

	cfg := finnhub.NewConfiguration()
	cfg.HTTPClient = &http.Client{Transport: &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}}

	headlines, err := newFinnHubSource(cfg).Fetch(context.Background(), 1)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(headlines))
}

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
