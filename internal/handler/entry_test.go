package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/corpus"
	"github.com/ulimi/corpus-api/internal/importer"
	"github.com/ulimi/corpus-api/internal/model"
	"github.com/ulimi/corpus-api/internal/search"
	"github.com/ulimi/corpus-api/internal/settings"
	"github.com/ulimi/corpus-api/internal/store"
)

type testServer struct {
	router *gin.Engine
	mem    *store.Memory
	repo   *corpus.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	logg := zerolog.Nop()
	act := activity.New(mem, logg)
	repo := corpus.New(mem, act, logg)
	history := search.NewHistory(mem, logg)
	repo.RegisterTrimmer(history)
	engine := search.NewEngine(repo, history, act, logg)
	cfg := settings.New(mem, logg)
	imp := importer.New(repo, act, logg)

	h := NewEntryHandler(repo, engine, imp, cfg, act, nil, logg)

	router := gin.New()
	router.GET("/api/entries", h.List)
	router.POST("/api/entries", h.Create)
	router.GET("/api/entries/search", h.Search)
	router.GET("/api/entries/suggest", h.Suggest)
	router.POST("/api/entries/import", h.Import)
	router.GET("/api/entries/export", h.Export)

	return &testServer{router: router, mem: mem, repo: repo}
}

func (s *testServer) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func newEntryBody(word string) []byte {
	raw, _ := json.Marshal(model.Entry{
		Word:        word,
		Translation: "translation",
		Pos:         model.PosNoun,
		Genre:       model.GenreCultural,
		Languages:   []string{"isizulu"},
		Examples: []model.UsageExample{
			{SourceText: "umzekelo", TargetText: "an example"},
		},
		CulturalContext: "context",
	})
	return raw
}

func TestListReturnsSeededCollection(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []model.Entry `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(corpus.StarterEntries()), resp.Total)
}

func TestListFiltersByGenre(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries?genre=proverb", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, e := range resp.Data {
		assert.Equal(t, model.GenreProverb, e.Genre)
	}
	assert.NotEmpty(t, resp.Data)
}

func TestCreateReturnsStoredEntry(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/entries", newEntryBody("Sawubona"))
	require.Equal(t, http.StatusCreated, w.Code)

	var stored model.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Sawubona", stored.Word)
	assert.Equal(t, 1, stored.Frequency)
	assert.NotZero(t, stored.ID)
}

func TestCreateRejectsInvalidEntryWithMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/entries", []byte(`{"word":"Sawubona"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Messages []string `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Messages, "Translation is required")
}

func TestCreateReportsStorageUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.mem.Unavailable = true

	w := s.do(t, http.MethodPost, "/api/entries", newEntryBody("Sawubona"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchRejectsShortTerm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries/search?q=u", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchReturnsRankedResults(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries/search?q=ubuntu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []model.Entry `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "Ubuntu", resp.Data[0].Word)
}

func TestSearchWithoutMatchesReturnsEmptyArray(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries/search?q=zzzzzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	var resp struct {
		Data  []model.Entry `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
	assert.Zero(t, resp.Total)
}

func TestSearchCapsResultsAtConfiguredLimit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cfg := settings.New(s.mem, zerolog.Nop())
	require.NoError(t, cfg.SetSearchLimit(ctx, 1))
	for _, word := range []string{"isaga one", "isaga two", "isaga three"} {
		_, err := s.repo.Save(ctx, mustEntry(word))
		require.NoError(t, err)
	}

	w := s.do(t, http.MethodGet, "/api/entries/search?q=isaga", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []model.Entry `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 3, resp.Total, "total reports all matches before the cap")
}

func TestSuggestFailsOpenWithoutRedis(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries/suggest?q=ub", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suggestions)
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/entries/import", []byte(`{"not":"an array"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid import payload")
}

func TestImportRawBodyReportsTally(t *testing.T) {
	s := newTestServer(t)

	payload, err := json.Marshal([]model.Entry{mustEntry("Sawubona"), mustEntry("Yebo")})
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/entries/import", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Failed)
}

func TestExportIsValidImportInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/entries/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "corpus-export.json")

	w2 := s.do(t, http.MethodPost, "/api/entries/import", w.Body.Bytes())
	require.Equal(t, http.StatusOK, w2.Code)

	var report importer.Report
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &report))
	assert.Equal(t, 0, report.Failed)
}

func mustEntry(word string) model.Entry {
	var e model.Entry
	if err := json.Unmarshal(newEntryBody(word), &e); err != nil {
		panic(err)
	}
	return e
}
