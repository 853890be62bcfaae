package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/qualify"
	"github.com/sellside/underwriter/internal/universe"
	"github.com/sellside/underwriter/pkg/logger"
)

// QualifyHandler handles qualification run endpoints
type QualifyHandler struct {
	orchestrator    *qualify.Orchestrator
	universeBuilder *universe.Builder
	logger          *logger.Logger
}

// NewQualifyHandler creates a new qualify handler
func NewQualifyHandler(orch *qualify.Orchestrator, builder *universe.Builder, log *logger.Logger) *QualifyHandler {
	return &QualifyHandler{
		orchestrator:    orch,
		universeBuilder: builder,
		logger:          log,
	}
}

// Qualify runs a full qualification pass
// POST /api/qualify
func (h *QualifyHandler) Qualify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contracts.QualifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Source == "" {
		req.Source = contracts.SourceManual
	}
	if req.Source != contracts.SourceManual && req.Source != contracts.SourceRecommended {
		respondError(w, http.StatusBadRequest, "Source must be MANUAL or RECOMMENDED")
		return
	}
	if req.Source == contracts.SourceManual && len(req.Tickers) == 0 {
		respondError(w, http.StatusBadRequest, "MANUAL source requires a non-empty ticker list")
		return
	}
	if req.AccountSize < 0 {
		respondError(w, http.StatusBadRequest, "Account size cannot be negative")
		return
	}

	response, err := h.orchestrator.Run(ctx, req)
	if err != nil {
		h.logger.WithError(err).Error("Qualify run failed")
		respondError(w, http.StatusInternalServerError, "Qualification run failed")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// BuildUniverseRequest selects the ticker source for a universe build
type BuildUniverseRequest struct {
	Source                contracts.TickerSource `json:"source"`
	Tickers               []string               `json:"tickers,omitempty"`
	RecommendationProfile string                 `json:"recommendation_profile,omitempty"`
}

// BuildUniverse runs universe filtering without qualification
// POST /api/universe/build
func (h *QualifyHandler) BuildUniverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BuildUniverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Source == "" {
		req.Source = contracts.SourceManual
	}
	if req.Source == contracts.SourceManual && len(req.Tickers) == 0 {
		respondError(w, http.StatusBadRequest, "MANUAL source requires a non-empty ticker list")
		return
	}

	result, err := h.universeBuilder.Build(ctx, universe.BuildRequest{
		Source:                req.Source,
		Tickers:               req.Tickers,
		RecommendationProfile: req.RecommendationProfile,
	})
	if err != nil {
		h.logger.WithError(err).Error("Universe build failed")
		respondError(w, http.StatusInternalServerError, "Universe build failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
