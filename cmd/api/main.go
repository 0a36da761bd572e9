package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANOUAR90ESS/veto7/db"
	"github.com/ANOUAR90ESS/veto7/internal/admin"
	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/checkout"
	"github.com/ANOUAR90ESS/veto7/internal/config"
	"github.com/ANOUAR90ESS/veto7/internal/handler"
	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/query"
	"github.com/ANOUAR90ESS/veto7/internal/repository"
	"github.com/ANOUAR90ESS/veto7/internal/session"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
	"github.com/ANOUAR90ESS/veto7/pkg/feed"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"
	"github.com/ANOUAR90ESS/veto7/pkg/trends"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	headlineLimit = 10
	checkoutPath  = "/api/create-checkout"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote := connectDatabase(ctx, cfg)
	if remote {
		defer db.Close()
	}
	redisReady := connectRedis(ctx, cfg)
	if redisReady {
		defer db.CloseRedis()
	}

	feeds := feed.NewClient(cfg.RSSProxyURL)
	gen := newGenerator(cfg)

	opts := shell.Options{
		Headlines: headlineSource(cfg, feeds),
	}
	var (
		resolver *session.Resolver
		plans    checkout.PlanSetter
		cache    *query.Client
	)
	if remote {
		profiles := repository.NewProfileRepository(db.DB)
		var buckets query.BucketStore
		if redisReady {
			buckets = query.NewRedisStore(db.Redis)
			opts.Enqueue = func(ctx context.Context, toolID string) error {
				return db.PushToQueue(ctx, db.EnrichQueueKey, toolID)
			}
		}
		cache = query.NewClient(buckets, repository.NewToolRepository(db.DB), repository.NewNewsRepository(db.DB))
		opts.Store = catalog.NewRemoteStore(cache)
		opts.Usage = profiles
		resolver = session.NewResolver(cfg.SupabaseJWTSecret, profiles)
		plans = profiles
	} else {
		opts.Store = catalog.NewMemoryStore()
		resolver = session.NewDemoResolver(cfg.DemoAdmin)
	}

	adminDeps := admin.Deps{Feeds: feeds}
	if gen != nil {
		opts.Generator = gen
		adminDeps.Generator = gen
	}

	app := shell.New(opts)
	adminDeps.Catalog = app
	workspaces := admin.NewWorkspaces(adminDeps)

	slog.Info("starting api", "mode", app.Mode(), "ai", app.AIAvailable(), "redis", redisReady)

	if err := app.Bootstrap(ctx); err != nil {
		slog.Error("error bootstrapping directory", "error", err)
	}

	if remote {
		notifier := session.NewNotifier()
		unwatch := app.WatchAuth(notifier, resolver)
		defer unwatch()
		dropWorkspaces := notifier.Subscribe(func(ev session.Event) {
			if ev.Type == session.EventSignedOut {
				workspaces.Drop(ev.UserID)
			}
		})
		defer dropWorkspaces()

		go func() {
			if err := notifier.Listen(ctx, cfg.DatabaseURL); err != nil {
				slog.Error("auth event listener stopped", "error", err)
			}
		}()
	}

	r := gin.Default()

	slog.Info("AllowOrigins URL:", "urls", cfg.AllowedOrigins)

	apiCORS := cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// The checkout endpoint answers its own preflight requests.
	r.Use(metrics.Middleware(), exceptPath(apiCORS, checkoutPath), handler.Authenticate(resolver))

	checkoutHandler := checkout.NewHandler(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.AllowedOrigins, plans)
	r.Any(checkoutPath, checkoutHandler.CreateCheckout)
	r.POST("/api/stripe/webhook", checkoutHandler.Webhook)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	catalogHandler := handler.NewCatalogHandler(app)
	r.GET("/health", catalogHandler.GetHealth)

	api := r.Group("/api")
	api.GET("/tools", catalogHandler.ListTools)
	api.GET("/tools/:id", catalogHandler.GetTool)
	api.GET("/tools/:id/slides", catalogHandler.GetSlides)
	api.GET("/tools/:id/tutorial", catalogHandler.GetTutorial)
	api.GET("/tools/:id/course", catalogHandler.GetCourse)
	api.POST("/tools/:id/course", catalogHandler.GenerateCourse)
	api.GET("/news", catalogHandler.ListNews)
	api.GET("/news/:id", catalogHandler.GetArticle)
	api.GET("/me", catalogHandler.GetMe)

	handler.NewAdminHandler(workspaces).Register(api.Group("/admin", handler.RequireAdmin()))

	pages, err := handler.NewPageHandler(app)
	if err != nil {
		log.Fatalf("error loading templates: %v", err)
	}
	pages.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down server", "error", err)
	}
	if cache != nil {
		cache.Wait()
	}
}

// connectDatabase reports whether remote mode is available. Any failure falls
// back to local mode.
func connectDatabase(ctx context.Context, cfg config.Config) bool {
	if !cfg.DatabaseConfigured() {
		slog.Warn("DATABASE_URL not set, running in local mode")
		return false
	}
	if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
		slog.Warn("error connecting to DB, running in local mode", "error", err)
		db.Close()
		return false
	}
	return true
}

func connectRedis(ctx context.Context, cfg config.Config) bool {
	if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		if !errors.Is(err, db.ErrNotConfigured) {
			slog.Warn("error connecting to Redis, using in-process cache", "error", err)
			db.CloseRedis()
		}
		return false
	}
	return true
}

func newGenerator(cfg config.Config) *llm.Generator {
	gen := llm.FromKeys(cfg.LLMProvider, cfg.OpenAIAPIKey, cfg.AnthropicAPIKey)
	if gen == nil {
		slog.Warn("no LLM API key set, AI features disabled")
		return nil
	}
	slog.Info("generative backend ready", "model", gen.ModelName(), "images", cfg.OpenAIAPIKey != "")
	return gen
}

// headlineSource gathers trending AI headlines for batch generation from the
// configured sources. It returns nil when none are configured.
func headlineSource(cfg config.Config, feeds *feed.Client) func(context.Context) []string {
	var sources []trends.Source
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, trends.NewFinnHubSource(cfg.FinnhubAPIKey))
	}
	if len(cfg.TrendFeeds) > 0 {
		sources = append(sources, trends.NewRSSSource(feeds, cfg.TrendFeeds))
	}
	if len(sources) == 0 {
		return nil
	}
	return func(ctx context.Context) []string {
		return trends.Collect(ctx, sources, headlineLimit)
	}
}

func exceptPath(mw gin.HandlerFunc, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == path {
			return
		}
		mw(c)
	}
}
