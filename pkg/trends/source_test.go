package trends

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ANOUAR90ESS/veto7/pkg/feed"

	"github.com/go-playground/assert/v2"
)

type fakeSource struct {
	name      string
	headlines []Headline
	err       error
}

func (f *fakeSource) Fetch(ctx context.Context, limit int) ([]Headline, error) {
	return f.headlines, f.err
}

func (f *fakeSource) Name() string {
	return f.name
}

func TestIsAIRelated(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"OpenAI ships GPT update", true},
		{"How AI is changing retail", true},
		{"Generative video tools compared", true},
		{"Said the chair of the board", false},
		{"Oil prices slip", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAIRelated(tt.title))
		})
	}
}

func TestCollect(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "a", headlines: []Headline{{Title: "Claude 5 released"}, {Title: "Gemini update"}}},
		&fakeSource{name: "broken", err: errors.New("timeout")},
		&fakeSource{name: "b", headlines: []Headline{{Title: "claude 5 released "}, {Title: ""}, {Title: "Runway Gen-4"}}},
	}

	titles := Collect(context.Background(), sources, 10)

	assert.Equal(t, []string{"Claude 5 released", "Gemini update", "Runway Gen-4"}, titles)
}

func TestCollectLimit(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "a", headlines: []Headline{{Title: "one"}, {Title: "two"}, {Title: "three"}}},
	}

	assert.Equal(t, 2, len(Collect(context.Background(), sources, 2)))
	assert.Equal(t, 0, len(Collect(context.Background(), nil, 2)))
}

func TestRSSSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Mistral releases a small model</title><description>d</description></item>
<item><title>Perplexity adds shopping</title><description>d</description></item>
</channel></rss>`))
	}))
	defer srv.Close()

	source := NewRSSSource(feed.NewClient(""), []string{srv.URL + "/ai.xml"})
	headlines, err := source.Fetch(context.Background(), 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(headlines))
	assert.Equal(t, "Mistral releases a small model", headlines[0].Title)
	assert.Equal(t, "RSS", headlines[0].Source)
}

func TestRSSSourceFetchAllFeedsFail(t *testing.T) {
	source := NewRSSSource(feed.NewClient(""), []string{"not a url"})

	_, err := source.Fetch(context.Background(), 5)

	assert.NotEqual(t, nil, err)
}
