package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/cache"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/importer"
	"github.com/ulimi/corpus-api/internal/middleware"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/search"
	"github.com/ulimi/corpus-api/internal/settings"
)

// MinSearchTermLength gates how short a live search may be; shorter input
// stays client-side.
const MinSearchTermLength = 2

type EntryHandler struct {
	repo     *corpus.Repository
	engine   *search.Engine
	importer *importer.Importer
	settings *settings.Settings
	activity *activity.Log
	auth     AuthLister
	cache    *cache.RedisCache
	logger   zerolog.Logger
}

// AuthLister is the slice of the auth manager the backup export needs.
type AuthLister interface {
	Users(ctx context.Context) ([]model.Session, error)
}

func NewEntryHandler(repo *corpus.Repository, engine *search.Engine, imp *importer.Importer, cfg *settings.Settings, act *activity.Log, redisCache *cache.RedisCache, logger zerolog.Logger) *EntryHandler {
	return &EntryHandler{
		repo:     repo,
		engine:   engine,
		importer: imp,
		settings: cfg,
		activity: act,
		cache:    redisCache,
		logger:   logger,
	}
}

// SetUserLister wires the auth manager's user listing into backups.
func (h *EntryHandler) SetUserLister(l AuthLister) {
	h.auth = l
}

// List returns the whole collection, optionally filtered to one genre.
func (h *EntryHandler) List(c *gin.Context) {
	entries := h.repo.LoadAll(c.Request.Context())

	if genre := c.Query("genre"); genre != "" {
		filtered := make([]model.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Genre == genre {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": entries, "total": len(entries)})
}

// Create saves a new entry.
func (h *EntryHandler) Create(c *gin.Context) {
	var candidate model.Entry
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	stored, err := h.repo.Save(c.Request.Context(), candidate)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "messages": verr.Messages})
			return
		}
		if errors.Is(err, model.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return
	}

	middleware.RecordEntrySaved()
	h.refreshSuggestIndex([]string{stored.Word})

	c.JSON(http.StatusCreated, stored)
}

// Search runs a ranked search over the corpus.
func (h *EntryHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if len([]rune(term)) < MinSearchTermLength {
		middleware.RecordSearch(false, 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "search term must be at least 2 characters"})
		return
	}

	filters := search.Filters{
		Pos:   c.Query("pos"),
		Genre: c.Query("genre"),
	}
	if langs := c.Query("languages"); langs != "" {
		filters.Languages = strings.Split(langs, ",")
	}

	results, err := h.engine.Search(c.Request.Context(), term, filters)
	if err != nil {
		middleware.RecordSearch(false, 0)
		if errors.Is(err, model.ErrTermRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "search term is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	if results == nil {
		results = []model.Entry{}
	}
	total := len(results)
	if limit := h.settings.SearchLimit(c.Request.Context()); len(results) > limit {
		results = results[:limit]
	}

	middleware.RecordSearch(true, total)
	c.JSON(http.StatusOK, gin.H{"data": results, "total": total})
}

// Suggest returns indexed headword completions for a prefix. Fail-open:
// without Redis it returns an empty list.
func (h *EntryHandler) Suggest(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len([]rune(query)) < MinSearchTermLength || h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
		return
	}

	suggestions, err := h.cache.Suggest(c.Request.Context(), query, 8)
	if err != nil {
		h.logger.Warn().Err(err).Msg("suggest lookup failed")
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Import accepts a JSON entry array, as an uploaded file or as the raw
// request body, validates its shape and saves each record independently.
func (h *EntryHandler) Import(c *gin.Context) {
	raw, err := h.readImportPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read import payload"})
		return
	}

	report, err := h.importer.Import(c.Request.Context(), raw)
	if err != nil {
		var ferr *model.ImportFormatError
		if errors.As(err, &ferr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	words := make([]string, 0, report.Imported)
	for _, e := range h.repo.LoadAll(c.Request.Context()) {
		words = append(words, e.Word)
	}
	h.refreshSuggestIndex(words)

	c.JSON(http.StatusOK, report)
}

// Export writes the plain entry-array JSON document. Its output is always
// valid import input.
func (h *EntryHandler) Export(c *gin.Context) {
	entries := h.repo.LoadAll(c.Request.Context())
	h.activity.Append(c.Request.Context(), "Exported corpus data")

	c.Header("Content-Disposition", "attachment; filename=corpus-export.json")
	c.JSON(http.StatusOK, entries)
}

type backupDocument struct {
	Data      []model.Entry          `json:"data"`
	Logs      []model.ActivityRecord `json:"logs"`
	Users     []model.Session        `json:"users"`
	Timestamp time.Time              `json:"timestamp"`
}

// Backup writes the full backup document: entries, logs and user records.
func (h *EntryHandler) Backup(c *gin.Context) {
	ctx := c.Request.Context()
	doc := h.buildBackup(ctx)

	if err := h.settings.SetLastBackup(ctx, doc.Timestamp); err != nil {
		h.logger.Warn().Err(err).Msg("failed to record backup time")
	}
	h.activity.Append(ctx, "Exported full backup")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=corpus-backup-%s.json", doc.Timestamp.Format("2006-01-02")))
	c.JSON(http.StatusOK, doc)
}

// DebugExport is the backup document plus the effective settings.
func (h *EntryHandler) DebugExport(c *gin.Context) {
	ctx := c.Request.Context()
	doc := h.buildBackup(ctx)

	c.JSON(http.StatusOK, gin.H{
		"data":      doc.Data,
		"logs":      doc.Logs,
		"users":     doc.Users,
		"timestamp": doc.Timestamp,
		"settings":  h.settings.All(ctx),
	})
}

func (h *EntryHandler) buildBackup(ctx context.Context) backupDocument {
	doc := backupDocument{
		Data:      h.repo.LoadAll(ctx),
		Logs:      h.activity.Recent(ctx),
		Timestamp: time.Now(),
	}
	if h.auth != nil {
		if users, err := h.auth.Users(ctx); err == nil {
			doc.Users = users
		}
	}
	return doc
}

func (h *EntryHandler) readImportPayload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// refreshSuggestIndex pushes headwords into the Redis suggestion index in
// the background; losing Redis loses only suggestions.
func (h *EntryHandler) refreshSuggestIndex(words []string) {
	if h.cache == nil || len(words) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.cache.AddTerms(ctx, words); err != nil {
			h.logger.Warn().Err(err).Msg("failed to update suggest index")
		}
	}()
}
