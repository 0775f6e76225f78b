// Package api provides HTTP API handlers for the Driftline API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driftline/driftline/internal/feed"
	"github.com/driftline/driftline/internal/middleware"
)

// maxFeedLimit caps the per-request feed size.
const maxFeedLimit = 100

// FeedHandlers serves personalized feed requests.
type FeedHandlers struct {
	service *feed.Service
	logger  *slog.Logger
}

// NewFeedHandlers creates feed handlers backed by the given service.
func NewFeedHandlers(service *feed.Service, logger *slog.Logger) *FeedHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandlers{service: service, logger: logger}
}

// FeedResponse is the JSON body for GET /v1/feed.
type FeedResponse struct {
	ViewerID string            `json:"viewer_id"`
	Items    []feed.ScoredItem `json:"items"`
}

// GetFeed handles GET /v1/feed.
// The viewer identity comes from the authenticated request context; an
// optional ?limit= query parameter caps the item count.
func (h *FeedHandlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	if viewerID == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	items, err := h.service.Feed(r.Context(), viewerID, limit)
	if err != nil {
		h.logger.Error("feed assembly failed", "viewer_id", viewerID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to assemble feed")
		return
	}

	WriteJSON(w, http.StatusOK, FeedResponse{ViewerID: viewerID, Items: items})
}
