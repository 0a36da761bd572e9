package trends

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubSource struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubSource(apiKey string) *FinnHubSource {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return newFinnHubSource(cfg)
}

func newFinnHubSource(cfg *finnhub.Configuration) *FinnHubSource {
	return &FinnHubSource{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

// Fetch returns technology market news that mentions AI, newest first as FinnHub orders it.
func (c *FinnHubSource) Fetch(ctx context.Context, limit int) ([]Headline, error) {
	res, _, err := c.client.MarketNews(ctx).Category("technology").Execute()
	if err != nil {
		return nil, err
	}

	var headlines []Headline

	for _, news := range res {
		if news.Headline == nil || !IsAIRelated(*news.Headline) {
			continue
		}

		h := Headline{
			Title:  *news.Headline,
			Source: c.Name(),
		}

		if news.Summary != nil {
			h.Summary = *news.Summary
		}

		if news.Url != nil {
			h.URL = *news.Url
		}

		if news.Datetime != nil {
			h.PublishedAt = time.Unix(*news.Datetime, 0)
		}

		if news.Source != nil {
			h.Publisher = *news.Source
		}

		headlines = append(headlines, h)
		if limit > 0 && len(headlines) == limit {
			break
		}
	}

	return headlines, nil
}

func (c *FinnHubSource) Name() string {
	return "FinnHub"
}
