package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sellside/underwriter/internal/concentration"
	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/positions"
	"github.com/sellside/underwriter/pkg/logger"
)

// PortfolioHandler handles portfolio-scoped risk endpoints
type PortfolioHandler struct {
	evaluator *concentration.Evaluator
	repo      *positions.Repository
	logger    *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler. The repository
// may be nil when no database is configured; concentration checks then
// require positions in the request body.
func NewPortfolioHandler(evaluator *concentration.Evaluator, repo *positions.Repository, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		evaluator: evaluator,
		repo:      repo,
		logger:    log,
	}
}

// ConcentrationRequest carries positions for a portfolio evaluation.
// Prospective entries may be mixed in with open positions. When the
// list is empty the stored open positions are used instead.
type ConcentrationRequest struct {
	Positions []contracts.Position `json:"positions,omitempty"`
}

// Concentration evaluates sector, ticker, and beta concentration
// POST /api/portfolio/concentration
func (h *PortfolioHandler) Concentration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ConcentrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	portfolio := req.Positions
	if len(portfolio) == 0 {
		if h.repo == nil {
			respondError(w, http.StatusBadRequest, "Positions are required when no position store is configured")
			return
		}
		open, err := h.repo.Open(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load open positions")
			respondError(w, http.StatusInternalServerError, "Failed to load open positions")
			return
		}
		portfolio = open
	}

	for _, p := range portfolio {
		if p.Ticker == "" {
			respondError(w, http.StatusBadRequest, "Every position needs a ticker")
			return
		}
		if p.Collateral < 0 {
			respondError(w, http.StatusBadRequest, "Position collateral cannot be negative")
			return
		}
	}

	result := h.evaluator.Evaluate(portfolio)

	respondJSON(w, http.StatusOK, result)
}

// OpenPositions returns the stored open positions
// GET /api/portfolio/positions
func (h *PortfolioHandler) OpenPositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "No position store is configured")
		return
	}

	open, err := h.repo.Open(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load open positions")
		respondError(w, http.StatusInternalServerError, "Failed to load open positions")
		return
	}

	respondJSON(w, http.StatusOK, open)
}
