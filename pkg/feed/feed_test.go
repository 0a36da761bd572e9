package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>AI Weekly</title>
    <item>
      <title>OpenAI ships a new model</title>
      <description>The model is faster.</description>
      <link>https://example.com/a</link>
    </item>
    <item>
      <title>Runway raises funding</title>
      <description>Series D.</description>
    </item>
    <item>
      <title>Third item</title>
      <description>Ignored when count is 2.</description>
    </item>
  </channel>
</rss>`

func TestParse(t *testing.T) {
	items, err := Parse(sampleRSS, 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "rss-0", items[0].ID)
	assert.Equal(t, "OpenAI ships a new model", items[0].Title)
	assert.Equal(t, "The model is faster.", items[0].Description)
	assert.Equal(t, "https://example.com/a", items[0].Link)
	assert.Equal(t, "rss-1", items[1].ID)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("<rss><channel><item>", 5)
	assert.Equal(t, true, errors.Is(err, ErrMalformed))

	_, err = Parse("", 5)
	assert.Equal(t, true, errors.Is(err, ErrMalformed))
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, ClampCount(0))
	assert.Equal(t, 1, ClampCount(-4))
	assert.Equal(t, 7, ClampCount(7))
	assert.Equal(t, MaxCount, ClampCount(500))
}

func TestFetch_Direct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	client := NewClient("")
	items, err := client.Fetch(context.Background(), srv.URL+"/feed.xml", 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(items))
}

func TestFetch_ThroughProxy(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"contents": sampleRSS})
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/get")
	items, err := client.Fetch(context.Background(), "https://feeds.example.com/ai.xml", 1)

	assert.Equal(t, nil, err)
	assert.Equal(t, "https://feeds.example.com/ai.xml", gotURL)
	assert.Equal(t, 1, len(items))
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient("").Fetch(context.Background(), srv.URL, 5)

	assert.NotEqual(t, nil, err)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := NewClient("").Fetch(context.Background(), "not a url", 5)

	assert.Equal(t, true, errors.Is(err, ErrMalformed))
}

func TestFetch_OversizedDocumentIsTruncated(t *testing.T) {
	limit := maxDocumentBytes
	maxDocumentBytes = int64(len(sampleRSS) / 2)
	defer func() { maxDocumentBytes = limit }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
		w.Write([]byte(strings.Repeat(" ", 1<<20)))
	}))
	defer srv.Close()

	_, err := NewClient("").Fetch(context.Background(), srv.URL, 5)

	assert.Equal(t, true, errors.Is(err, ErrMalformed))
}
