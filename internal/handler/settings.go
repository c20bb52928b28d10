package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulimi/corpus-api/internal/settings"
)

type SettingsHandler struct {
	settings *settings.Settings
}

func NewSettingsHandler(cfg *settings.Settings) *SettingsHandler {
	return &SettingsHandler{settings: cfg}
}

type settingsResponse struct {
	PublicStats bool   `json:"publicStats"`
	AutoBackup  bool   `json:"autoBackup"`
	SearchLimit int    `json:"searchLimit"`
	LastBackup  string `json:"lastBackup"`
}

// Get returns the effective settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, settingsResponse{
		PublicStats: h.settings.PublicStats(ctx),
		AutoBackup:  h.settings.AutoBackup(ctx),
		SearchLimit: h.settings.SearchLimit(ctx),
		LastBackup:  h.settings.LastBackup(ctx),
	})
}

type updateSettingsRequest struct {
	PublicStats *bool `json:"publicStats"`
	AutoBackup  *bool `json:"autoBackup"`
	SearchLimit *int  `json:"searchLimit"`
}

// Update applies the provided settings; absent fields keep their value.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	if req.PublicStats != nil {
		if err := h.settings.SetPublicStats(ctx, *req.PublicStats); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
	}
	if req.AutoBackup != nil {
		if err := h.settings.SetAutoBackup(ctx, *req.AutoBackup); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
	}
	if req.SearchLimit != nil {
		if *req.SearchLimit < 1 || *req.SearchLimit > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "searchLimit must be between 1 and 500"})
			return
		}
		if err := h.settings.SetSearchLimit(ctx, *req.SearchLimit); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
	}

	h.Get(c)
}
