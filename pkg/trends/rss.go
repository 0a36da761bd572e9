package trends

import (
	"context"

	"github.com/ANOUAR90ESS/veto7/pkg/feed"
)

// RSSSource reads headlines from a list of feeds, e.g. TechCrunch AI or The Verge.
type RSSSource struct {
	feeds  []string
	client *feed.Client
}

func NewRSSSource(client *feed.Client, feeds []string) *RSSSource {
	return &RSSSource{feeds: feeds, client: client}
}

func (s *RSSSource) Name() string {
	return "RSS"
}

func (s *RSSSource) Fetch(ctx context.Context, limit int) ([]Headline, error) {
	var (
		headlines []Headline
		lastErr   error
	)

	for _, u := range s.feeds {
		items, err := s.client.Fetch(ctx, u, feed.MaxCount)
		if err != nil {
			lastErr = err
			continue
		}

		for _, it := range items {
			h := Headline{
				Title:     it.Title,
				Summary:   it.Description,
				URL:       it.Link,
				Publisher: u,
				Source:    s.Name(),
			}
			if it.PublishedAt != nil {
				h.PublishedAt = *it.PublishedAt
			}
			headlines = append(headlines, h)
			if limit > 0 && len(headlines) == limit {
				return headlines, nil
			}
		}
	}

	if len(headlines) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return headlines, nil
}
