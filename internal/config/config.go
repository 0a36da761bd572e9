package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var DefaultAllowedOrigins = []string{
	"https://www.vetorre.com",
	"http://localhost:5173",
	"http://localhost:3000",
}

type Config struct {
	Port string

	DatabaseURL       string
	RedisURL          string
	SupabaseJWTSecret string

	LLMProvider     string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string

	AllowedOrigins []string

	FinnhubAPIKey string
	TrendFeeds    []string
	RSSProxyURL   string

	// DemoAdmin grants an in-memory admin profile in local mode.
	DemoAdmin bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		SupabaseJWTSecret:    os.Getenv("SUPABASE_JWT_SECRET"),
		LLMProvider:          strings.ToLower(getenv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AllowedOrigins:       splitList(os.Getenv("ALLOWED_ORIGINS")),
		FinnhubAPIKey:        os.Getenv("FINNHUB_API_KEY"),
		TrendFeeds:           splitList(os.Getenv("TREND_FEEDS")),
		RSSProxyURL:          os.Getenv("RSS_PROXY_URL"),
		DemoAdmin:            os.Getenv("DEMO_ADMIN") == "true",
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}

	return cfg
}

// DatabaseConfigured reports whether remote mode should be attempted.
func (c Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

// AIConfigured reports whether any generative backend key is present. It is
// independent of the database configuration.
func (c Config) AIConfigured() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
