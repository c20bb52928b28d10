package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/analytics"
	"github.com/ulimi/corpus-api/internal/auth"
	"github.com/ulimi/corpus-api/internal/cache"
	"github.com/ulimi/corpus-api/internal/config"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/handler"
	"github.com/ulimi/corpus-api/internal/importer"
	"github.com/ulimi/corpus-api/internal/logger"
	"github.com/ulimi/corpus-api/internal/middleware"
	"github.com/ulimi/corpus-api/internal/search"
	"github.com/ulimi/corpus-api/internal/settings"
	"github.com/ulimi/corpus-api/internal/store"
)

func main() {
	cfg := config.Load()
	logg := logger.New("corpus-api")

	db, err := store.Connect(cfg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(); err != nil {
		logg.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Redis is optional; without it suggestions and stats caching are off
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logg.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		redisCache = nil
	}

	act := activity.New(db, logg)
	repo := corpus.New(db, act, logg)
	history := search.NewHistory(db, logg)
	repo.RegisterTrimmer(history)
	engine := search.NewEngine(repo, history, act, logg)
	appSettings := settings.New(db, logg)
	authManager := auth.NewManager(db, act, cfg.AdminUsers, logg)
	imp := importer.New(repo, act, logg)
	analyticsService := analytics.New(repo, act)

	ctx := context.Background()
	if err := repo.SeedIfEmpty(ctx); err != nil {
		logg.Warn().Err(err).Msg("failed to seed starter corpus")
	}

	if redisCache != nil {
		go loadSuggestIndex(repo, redisCache, logg)
	}

	entryHandler := handler.NewEntryHandler(repo, engine, imp, appSettings, act, redisCache, logg)
	entryHandler.SetUserLister(authManager)
	authHandler := handler.NewAuthHandler(authManager, cfg.JWTSecret, logg)
	activityHandler := handler.NewActivityHandler(act, engine)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, appSettings, redisCache, logg)
	settingsHandler := handler.NewSettingsHandler(appSettings)

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "storage": repo.Available(c.Request.Context())})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Logout)
	r.GET("/auth/session", authHandler.Session)
	r.GET("/auth/users", middleware.AdminMiddleware(cfg.JWTSecret), authHandler.Users)

	// Public API routes
	api := r.Group("/api")
	{
		api.GET("/entries", entryHandler.List)
		api.GET("/entries/search", entryHandler.Search)
		api.GET("/entries/suggest", entryHandler.Suggest)
		api.GET("/entries/export", entryHandler.Export)
		api.GET("/history", activityHandler.History)
		api.GET("/analytics/word-frequency", analyticsHandler.WordFrequency)
		api.GET("/analytics/corpus-stats", middleware.OptionalAuthMiddleware(cfg.JWTSecret), analyticsHandler.CorpusStats)
	}

	// Admin API routes
	admin := r.Group("/api", middleware.AdminMiddleware(cfg.JWTSecret))
	{
		admin.POST("/entries", entryHandler.Create)
		admin.POST("/entries/import", entryHandler.Import)
		admin.GET("/entries/backup", entryHandler.Backup)
		admin.GET("/entries/debug", entryHandler.DebugExport)
		admin.GET("/activity", activityHandler.List)
		admin.DELETE("/history", activityHandler.ClearHistory)
		admin.GET("/analytics/usage-stats", analyticsHandler.UsageStats)
		admin.GET("/analytics/dashboard", analyticsHandler.Dashboard)
		admin.GET("/settings", settingsHandler.Get)
		admin.PUT("/settings", settingsHandler.Update)
	}

	logg.Info().Str("port", cfg.Port).Msg("API server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logg.Fatal().Err(err).Msg("failed to start server")
	}
}

// loadSuggestIndex pushes every stored headword into the Redis suggestion
// index at startup.
func loadSuggestIndex(repo *corpus.Repository, redisCache *cache.RedisCache, logg zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries := repo.LoadAll(ctx)
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
	}

	if err := redisCache.AddTerms(ctx, words); err != nil {
		logg.Warn().Err(err).Msg("failed to load suggest index")
		return
	}
	logg.Info().Int("words", len(words)).Msg("loaded suggest index")
}
