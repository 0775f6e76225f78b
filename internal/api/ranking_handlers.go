package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/driftline/driftline/internal/engagement"
	"github.com/driftline/driftline/internal/middleware"
)

// RankingHandlers manages the live engagement scoring configuration.
type RankingHandlers struct {
	store   *engagement.Store
	metrics *engagement.PromMetrics
	logger  *slog.Logger
}

// NewRankingHandlers creates handlers over the process-wide config store.
// metrics may be nil.
func NewRankingHandlers(store *engagement.Store, metrics *engagement.PromMetrics, logger *slog.Logger) *RankingHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingHandlers{store: store, metrics: metrics, logger: logger}
}

// ConfigUpdateRequest is the JSON body for PUT /v1/ranking/config.
// Either a preset name or field overrides (or both, preset applied first).
type ConfigUpdateRequest struct {
	Preset   string               `json:"preset,omitempty"`
	Override *engagement.Override `json:"override,omitempty"`
}

// GetConfig handles GET /v1/ranking/config, returning the active scoring
// configuration.
func (h *RankingHandlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Current())
}

// UpdateConfig handles PUT /v1/ranking/config. The new configuration is
// swapped in atomically; in-flight scoring finishes on the old one.
func (h *RankingHandlers) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Invalid JSON body")
		return
	}
	if req.Preset == "" && req.Override == nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Provide a preset, an override, or both")
		return
	}

	if req.Preset != "" {
		if err := h.store.ApplyPreset(req.Preset); err != nil {
			if errors.Is(err, engagement.ErrUnknownPreset) {
				ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownPreset)
				WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownPreset, "Unknown engagement preset: "+req.Preset)
				return
			}
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
			WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to apply preset")
			return
		}
	}
	if req.Override != nil {
		h.store.ApplyOverride(req.Override)
	}

	applied := h.store.Current()
	h.logger.Info("engagement config updated",
		"preset", applied.Preset,
		"requested_preset", req.Preset,
		"has_override", req.Override != nil,
	)
	h.metrics.ObserveConfigSwap(applied.Preset)

	WriteJSON(w, http.StatusOK, applied)
}
