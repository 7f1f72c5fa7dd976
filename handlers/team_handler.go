package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/services"
)

// Verification uploads are short gameplay clips, capped well below full VODs.
const maxVideoUploadBytes = 200 << 20 // 200MB

type TeamHandler struct {
	teamService         services.TeamService
	verificationService services.VerificationService
}

func NewTeamHandler(ts services.TeamService, vs services.VerificationService) *TeamHandler {
	return &TeamHandler{teamService: ts, verificationService: vs}
}

type registerTeamInput struct {
	Name         string           `json:"name"`
	Tag          *string          `json:"tag"`
	CaptainEmail string           `json:"captain_email"`
	Players      []registerPlayer `json:"players"`
}

type registerPlayer struct {
	InGameName string `json:"in_game_name"`
	GameUID    string `json:"game_uid"`
}

// RegisterHandler handles POST /tournaments/{tournamentID}/teams. Open
// endpoint: captains register without an account.
func (h *TeamHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input registerTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team := &models.Team{
		TournamentID: tournamentID,
		Name:         input.Name,
		Tag:          input.Tag,
		CaptainEmail: input.CaptainEmail,
	}
	players := make([]models.Player, 0, len(input.Players))
	for _, p := range input.Players {
		players = append(players, models.Player{InGameName: p.InGameName, GameUID: p.GameUID})
	}

	created, err := h.teamService.Register(r.Context(), team, players)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /tournaments/{tournamentID}/teams with an optional
// status filter.
func (h *TeamHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.TeamStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TeamStatus(raw)
		status = &s
	}

	teams, err := h.teamService.ListByTournament(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /teams/{teamID}.
func (h *TeamHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadVideoHandler handles POST /teams/{teamID}/verification-video. The
// body is the raw video; Content-Type selects the stored extension.
func (h *TeamHandler) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("Content-Type header is required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoUploadBytes)
	team, err := h.verificationService.UploadVideo(r.Context(), teamID, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApproveHandler handles POST /admin/teams/{teamID}/approve.
func (h *TeamHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.verificationService.Approve)
}

// RejectHandler handles POST /admin/teams/{teamID}/reject.
func (h *TeamHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.verificationService.Reject)
}

func (h *TeamHandler) moderate(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, teamID int) (*models.Team, error)) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := action(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
