package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/services"
)

// BracketHandler exposes the phase generation and advancement operations.
// Every route here is admin-gated.
type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GenerateGroupStageHandler handles POST /admin/tournaments/{tournamentID}/group-stage.
func (h *BracketHandler) GenerateGroupStageHandler(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.bracketService.GenerateGroupStage)
}

// GeneratePlayInHandler handles POST /admin/tournaments/{tournamentID}/play-in.
func (h *BracketHandler) GeneratePlayInHandler(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.bracketService.GeneratePlayIn)
}

// GenerateEliminationHandler handles POST /admin/tournaments/{tournamentID}/elimination.
func (h *BracketHandler) GenerateEliminationHandler(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.bracketService.GenerateElimination)
}

// AdvanceRoundHandler handles POST /admin/tournaments/{tournamentID}/elimination/advance?round=N.
func (h *BracketHandler) AdvanceRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	raw := r.URL.Query().Get("round")
	round, err := strconv.Atoi(raw)
	if err != nil || round < 1 {
		badRequestResponse(w, r, errInvalidQueryParam("round", raw))
		return
	}

	outcome, err := h.bracketService.AdvanceEliminationRound(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayInStructureHandler handles GET /tournaments/{tournamentID}/play-in/structure.
// Public: spectators can preview how the field will be cut down.
func (h *BracketHandler) PlayInStructureHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cfg, err := h.bracketService.PlayInStructure(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"structure": cfg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetPhaseHandler handles DELETE /admin/tournaments/{tournamentID}/phases/{phase}.
func (h *BracketHandler) ResetPhaseHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	phase := models.PhaseType(chi.URLParam(r, "phase"))
	switch phase {
	case models.PhaseGroupStage, models.PhasePlayIn, models.PhaseElimination:
	default:
		badRequestResponse(w, r, fmt.Errorf("unknown phase %q", phase))
		return
	}

	deleted, err := h.bracketService.ResetPhase(r.Context(), tournamentID, phase)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted_matches": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) generate(w http.ResponseWriter, r *http.Request, generate func(ctx context.Context, tournamentID int) ([]models.Match, error)) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := generate(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
