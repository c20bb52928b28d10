package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulimi/corpus-api/internal/activity"
	"github.com/ulimi/corpus-api/internal/search"
)

type ActivityHandler struct {
	log    *activity.Log
	engine *search.Engine
}

func NewActivityHandler(log *activity.Log, engine *search.Engine) *ActivityHandler {
	return &ActivityHandler{log: log, engine: engine}
}

// List returns the retained activity records, newest first.
func (h *ActivityHandler) List(c *gin.Context) {
	records := h.log.Recent(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": records, "total": len(records)})
}

// History returns the recent search terms, newest first.
func (h *ActivityHandler) History(c *gin.Context) {
	terms := h.engine.History(c.Request.Context())
	if terms == nil {
		terms = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": terms, "total": len(terms)})
}

// ClearHistory empties the recent search terms.
func (h *ActivityHandler) ClearHistory(c *gin.Context) {
	if err := h.engine.ClearHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear search history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "search history cleared"})
}
