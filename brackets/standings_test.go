package brackets

import (
	"testing"

	"github.com/codmarena/codm-tournaments/models"
)

func TestLeaderboardGroupsOnly(t *testing.T) {
	roster := testRoster(4)
	matches := []models.Match{
		groupMatch("Group A", 1, 1, 2, 30, 20),
		groupMatch("Group A", 2, 1, 3, 25, 15),
		groupMatch("Group A", 3, 2, 3, 28, 22),
		groupMatch("Group A", 4, 4, 1, 35, 30),
	}
	rows := ComputeLeaderboard(models.FormatGroupsOnly, roster, matches, 3)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].TeamID != 1 {
		t.Errorf("leader = team %d, want 1", rows[0].TeamID)
	}
	if rows[0].Points != 6 || rows[0].MatchesPlayed != 3 || rows[0].TotalKills != 85 {
		t.Errorf("leader line = %+v", rows[0])
	}
	for i, row := range rows {
		if row.Rank != i+1 {
			t.Errorf("row %d rank %d", i, row.Rank)
		}
	}
}

func TestLeaderboardBracketOutcomePinsPodium(t *testing.T) {
	roster := testRoster(4)
	// Semifinals: 1 beats 2, 3 beats 4. Final: 3 beats 1.
	// Third place: 2 beats 4.
	matches := []models.Match{
		completedMatch(1, 1, 1, 2, false),
		completedMatch(1, 2, 3, 4, false),
		completedMatch(2, 1, 3, 1, false),
		completedMatch(2, 2, 2, 4, true),
	}
	rows := ComputeLeaderboard(models.FormatEliminationDirect, roster, matches, 3)
	want := []int{3, 1, 2, 4}
	for i, id := range want {
		if rows[i].TeamID != id {
			t.Errorf("rank %d = team %d, want %d", i+1, rows[i].TeamID, id)
		}
	}
	// Team 1 won a semi but lost the final and still outranks team 2 on
	// bracket outcome despite the identical match record.
	if rows[1].Wins != 1 || rows[2].Wins != 1 {
		t.Errorf("expected one win each for ranks 2 and 3, got %d and %d", rows[1].Wins, rows[2].Wins)
	}
}

func TestLeaderboardWithoutThirdPlaceUsesChain(t *testing.T) {
	roster := testRoster(4)
	// Same bracket, decider never played: semifinal losers 2 and 4 rank by
	// the points chain. Both have 0 wins, so kills decide.
	sf1 := completedMatch(1, 1, 1, 2, false)
	sf1.Result = &models.MatchResult{
		BestOf: 1,
		TeamStats: [2]models.TeamMatchStats{
			{TeamID: 1, Kills: 40, RoundsWon: 1},
			{TeamID: 2, Kills: 20, RoundsWon: 0},
		},
		Rounds: []models.RoundResult{{Number: 1, WinnerTeamID: 1}},
	}
	sf2 := completedMatch(1, 2, 3, 4, false)
	sf2.Result = &models.MatchResult{
		BestOf: 1,
		TeamStats: [2]models.TeamMatchStats{
			{TeamID: 3, Kills: 38, RoundsWon: 1},
			{TeamID: 4, Kills: 33, RoundsWon: 0},
		},
		Rounds: []models.RoundResult{{Number: 1, WinnerTeamID: 3}},
	}
	matches := []models.Match{sf1, sf2, completedMatch(2, 1, 3, 1, false)}

	rows := ComputeLeaderboard(models.FormatEliminationDirect, roster, matches, 3)
	want := []int{3, 1, 4, 2}
	for i, id := range want {
		if rows[i].TeamID != id {
			t.Errorf("rank %d = team %d, want %d", i+1, rows[i].TeamID, id)
		}
	}
}

func TestPlayerLeaderboardAccumulates(t *testing.T) {
	m1 := groupMatch("Group A", 1, 1, 2, 30, 20)
	m1.Result.PlayerKills = []models.PlayerKills{
		{PlayerID: 11, TeamID: 1, Name: "ace", Kills: 18},
		{PlayerID: 12, TeamID: 1, Name: "anchor", Kills: 12},
		{PlayerID: 21, TeamID: 2, Name: "slayer", Kills: 20},
	}
	m2 := groupMatch("Group A", 2, 2, 1, 25, 22)
	m2.Result.PlayerKills = []models.PlayerKills{
		{PlayerID: 11, TeamID: 1, Name: "ace", Kills: 22},
		{PlayerID: 21, TeamID: 2, Name: "slayer", Kills: 25},
	}
	rows := ComputePlayerLeaderboard([]models.Match{m1, m2})
	if len(rows) != 3 {
		t.Fatalf("expected 3 players, got %d", len(rows))
	}
	if rows[0].PlayerID != 21 || rows[0].Kills != 45 {
		t.Errorf("top fragger = %+v, want player 21 with 45", rows[0])
	}
	if rows[1].PlayerID != 11 || rows[1].Kills != 40 {
		t.Errorf("second = %+v, want player 11 with 40", rows[1])
	}
}
