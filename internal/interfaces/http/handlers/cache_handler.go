package handlers

import (
	"net/http"

	"github.com/turtacn/qsim/internal/application/cache"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
)

// Messages returned by /cache/clear.
const (
	MsgCacheCleared      = "Cache cleared."
	MsgCacheAlreadyEmpty = "Cache not available or already empty."
)

// CacheHandler serves the cache administration endpoints.
type CacheHandler struct {
	cache  cache.ResultCache
	logger logging.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(c cache.ResultCache, logger logging.Logger) *CacheHandler {
	return &CacheHandler{cache: c, logger: logger}
}

// CacheStatsResponse is the body of GET /cache/stats.
type CacheStatsResponse struct {
	Entries          int64  `json:"entries"`
	StorageSizeBytes int64  `json:"storage_size_bytes"`
	Message          string `json:"message,omitempty"`
}

// CacheClearResponse is the body of DELETE /cache/clear.
type CacheClearResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DeletedCount *int64 `json:"deleted_count,omitempty"`
}

// Stats handles GET /cache/stats.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil || !h.cache.Connected() {
		writeJSON(w, http.StatusOK, CacheStatsResponse{Message: cache.MsgUnavailable})
		return
	}
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		h.logger.Error("Cache stats failed", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, FailureResponse{Status: StatusFailed, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, CacheStatsResponse{Entries: stats.Entries, StorageSizeBytes: stats.StorageSizeBytes})
}

// Clear handles DELETE /cache/clear.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil || !h.cache.Connected() {
		writeJSON(w, http.StatusOK, CacheClearResponse{Status: StatusSuccess, Message: MsgCacheAlreadyEmpty})
		return
	}
	n, err := h.cache.Clear(r.Context())
	if err != nil {
		h.logger.Error("Cache clear failed", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, FailureResponse{Status: StatusFailed, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, CacheClearResponse{Status: StatusSuccess, Message: MsgCacheCleared, DeletedCount: &n})
}

//Personal.AI order the ending
