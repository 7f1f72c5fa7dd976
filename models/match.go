package models

import (
	"errors"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

type PhaseType string

const (
	PhaseGroupStage  PhaseType = "group_stage"
	PhasePlayIn      PhaseType = "play_in"
	PhaseElimination PhaseType = "elimination"
)

// BlocType distinguishes the two play-in sub-stages: A is paired single
// elimination, B is a round-robin pool.
type BlocType string

const (
	BlocA BlocType = "A"
	BlocB BlocType = "B"
)

// Match is a single contest between exactly two teams. It is created once by
// the generator for its phase/round and mutated only to attach a result.
type Match struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PhaseType    PhaseType `json:"phase_type" db:"phase_type"`
	BlocType     *BlocType `json:"bloc_type,omitempty" db:"bloc_type"`
	GroupName    *string   `json:"group_name,omitempty" db:"group_name"`
	Round        *int      `json:"round,omitempty" db:"round"`
	// MatchNumber orders matches within their (phase, round/group) bucket,
	// starting at 1. GlobalNumber is the tournament-wide running counter.
	MatchNumber  int  `json:"match_number" db:"match_number"`
	GlobalNumber int  `json:"global_number" db:"global_number"`
	Team1ID      int  `json:"team1_id" db:"team1_id"`
	Team2ID      int  `json:"team2_id" db:"team2_id"`
	// Display names denormalized so bracket views render without joins.
	Team1Name         string       `json:"team1_name" db:"team1_name"`
	Team2Name         string       `json:"team2_name" db:"team2_name"`
	IsThirdPlaceMatch bool         `json:"is_third_place_match" db:"is_third_place_match"`
	Status            MatchStatus  `json:"status" db:"status"`
	WinnerID          *int         `json:"winner_id,omitempty" db:"winner_id"`
	LoserID           *int         `json:"loser_id,omitempty" db:"loser_id"`
	Result            *MatchResult `json:"result,omitempty" db:"-"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
}

// TeamMatchStats is one team's aggregate line within a match result.
type TeamMatchStats struct {
	TeamID    int `json:"team_id"`
	Kills     int `json:"kills"`
	RoundsWon int `json:"rounds_won"`
}

// RoundResult is one best-of-N round: who took it and the kill split.
type RoundResult struct {
	Number       int `json:"number"`
	WinnerTeamID int `json:"winner_team_id"`
	Team1Kills   int `json:"team1_kills"`
	Team2Kills   int `json:"team2_kills"`
}

// PlayerKills records one player's kill count across the match.
type PlayerKills struct {
	PlayerID int    `json:"player_id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Kills    int    `json:"kills"`
}

// MatchResult is the closed result payload attached to a completed match.
type MatchResult struct {
	BestOf      int               `json:"best_of"`
	TeamStats   [2]TeamMatchStats `json:"team_stats"`
	Rounds      []RoundResult     `json:"rounds"`
	PlayerKills []PlayerKills     `json:"player_kills,omitempty"`
}

var (
	ErrResultTeamsMismatch  = errors.New("match result team stats do not match the match teams")
	ErrResultRoundsMismatch = errors.New("match result rounds are inconsistent with per-team rounds won")
	ErrResultNoWinner       = errors.New("match result does not produce a winner")
)

// Validate checks the result against the match it belongs to: stats must
// cover exactly the two match teams, per-team rounds won must sum
// consistently with the rounds array, and one team must hold the majority
// of the best-of count.
func (r *MatchResult) Validate(m *Match) error {
	if r.BestOf < 1 || r.BestOf%2 == 0 {
		return fmt.Errorf("best_of must be a positive odd number, got %d", r.BestOf)
	}

	ids := map[int]bool{m.Team1ID: true, m.Team2ID: true}
	if !ids[r.TeamStats[0].TeamID] || !ids[r.TeamStats[1].TeamID] ||
		r.TeamStats[0].TeamID == r.TeamStats[1].TeamID {
		return ErrResultTeamsMismatch
	}

	wonByTeam := make(map[int]int, 2)
	for _, round := range r.Rounds {
		if !ids[round.WinnerTeamID] {
			return fmt.Errorf("round %d winner %d is not part of the match", round.Number, round.WinnerTeamID)
		}
		wonByTeam[round.WinnerTeamID]++
	}
	for _, ts := range r.TeamStats {
		if wonByTeam[ts.TeamID] != ts.RoundsWon {
			return ErrResultRoundsMismatch
		}
	}

	needed := r.BestOf/2 + 1
	if r.TeamStats[0].RoundsWon < needed && r.TeamStats[1].RoundsWon < needed {
		return ErrResultNoWinner
	}
	return nil
}

// WinnerTeamID returns the team that took the round majority. Validate must
// have passed first.
func (r *MatchResult) WinnerTeamID() int {
	if r.TeamStats[0].RoundsWon > r.TeamStats[1].RoundsWon {
		return r.TeamStats[0].TeamID
	}
	return r.TeamStats[1].TeamID
}
