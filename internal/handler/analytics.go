package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/analytics"
	"github.com/ulimi/corpus-api/internal/cache"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/settings"
)

type AnalyticsHandler struct {
	service  *analytics.Service
	settings *settings.Settings
	cache    *cache.RedisCache
	logger   zerolog.Logger
}

func NewAnalyticsHandler(service *analytics.Service, cfg *settings.Settings, redisCache *cache.RedisCache, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, settings: cfg, cache: redisCache, logger: logger}
}

// WordFrequency returns the most common headword tokens.
func (h *AnalyticsHandler) WordFrequency(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	counts := h.service.WordFrequency(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{"words": counts})
}

// CorpusStats returns collection-level statistics, cached briefly in
// Redis when available. The endpoint is public only while the admin has
// public stats enabled.
func (h *AnalyticsHandler) CorpusStats(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.settings.PublicStats(ctx) {
		if role, ok := c.Get("role"); !ok || role != model.RoleAdministrator {
			c.JSON(http.StatusForbidden, gin.H{"error": "public statistics are disabled"})
			return
		}
	}

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cache.StatsKey); err == nil {
			var stats analytics.CorpusStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		}
	}

	stats := h.service.Corpus(ctx)

	if h.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := h.cache.Set(ctx, cache.StatsKey, raw); err != nil {
				h.logger.Warn().Err(err).Msg("failed to cache corpus stats")
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}

// UsageStats tallies recent activity per action kind.
func (h *AnalyticsHandler) UsageStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Usage(c.Request.Context()))
}

// Dashboard bundles every analytics view into one response.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"wordFrequency": h.service.WordFrequency(ctx, 20),
		"corpus":        h.service.Corpus(ctx),
		"usage":         h.service.Usage(ctx),
	})
}
