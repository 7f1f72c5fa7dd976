package brackets

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/codmarena/codm-tournaments/models"
)

// groupMatch builds a completed group-stage match with a kill split.
func groupMatch(group string, number, winID, loseID, winKills, loseKills int) models.Match {
	g := group
	w, l := winID, loseID
	return models.Match{
		TournamentID: 10,
		PhaseType:    models.PhaseGroupStage,
		GroupName:    &g,
		MatchNumber:  number,
		Team1ID:      winID,
		Team2ID:      loseID,
		Status:       models.MatchStatusCompleted,
		WinnerID:     &w,
		LoserID:      &l,
		Result: &models.MatchResult{
			BestOf: 1,
			TeamStats: [2]models.TeamMatchStats{
				{TeamID: winID, Kills: winKills, RoundsWon: 1},
				{TeamID: loseID, Kills: loseKills, RoundsWon: 0},
			},
			Rounds: []models.RoundResult{{Number: 1, WinnerTeamID: winID}},
		},
	}
}

// playInMatch builds a completed play-in match with a round score.
func playInMatch(bloc models.BlocType, number, winID, loseID, winRounds, loseRounds, winKills, loseKills int) models.Match {
	b := bloc
	r := 1
	w, l := winID, loseID
	return models.Match{
		TournamentID: 10,
		PhaseType:    models.PhasePlayIn,
		BlocType:     &b,
		Round:        &r,
		MatchNumber:  number,
		Team1ID:      winID,
		Team2ID:      loseID,
		Status:       models.MatchStatusCompleted,
		WinnerID:     &w,
		LoserID:      &l,
		Result: &models.MatchResult{
			BestOf: 3,
			TeamStats: [2]models.TeamMatchStats{
				{TeamID: winID, Kills: winKills, RoundsWon: winRounds},
				{TeamID: loseID, Kills: loseKills, RoundsWon: loseRounds},
			},
		},
	}
}

func TestGroupStandingsChain(t *testing.T) {
	roster := testRoster(4)
	matches := []models.Match{
		groupMatch("Group A", 1, 1, 2, 30, 20),
		groupMatch("Group A", 2, 1, 3, 25, 15),
		groupMatch("Group A", 3, 2, 3, 28, 22),
		groupMatch("Group A", 4, 4, 1, 35, 30),
		groupMatch("Group A", 5, 2, 4, 26, 24),
		groupMatch("Group A", 6, 3, 4, 27, 21),
	}
	rows := ComputeGroupStandings(roster, matches, 3)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	// Teams 1 and 2 both have 2 wins / 6 points; team 1 has more kills.
	if rows[0].TeamID != 1 || rows[1].TeamID != 2 {
		t.Errorf("top two = %d, %d; want 1, 2 (kills break the points tie)", rows[0].TeamID, rows[1].TeamID)
	}
	for i, row := range rows {
		if row.Position != i+1 {
			t.Errorf("row %d has position %d", i, row.Position)
		}
	}
	if rows[0].Points != 6 || rows[0].Wins != 2 || rows[0].Losses != 1 {
		t.Errorf("leader line = %dp %dw %dl, want 6p 2w 1l", rows[0].Points, rows[0].Wins, rows[0].Losses)
	}
	if rows[0].Kills != 85 {
		t.Errorf("leader kills = %d, want 85", rows[0].Kills)
	}
}

func TestGroupStandingsTiesFallBackToRegistrationOrder(t *testing.T) {
	roster := testRoster(4)
	// Two groups, no completed matches: all rows identical, order must
	// follow the roster.
	a, b := "Group A", "Group B"
	matches := []models.Match{
		{PhaseType: models.PhaseGroupStage, GroupName: &a, Team1ID: 1, Team2ID: 3, Status: models.MatchStatusPending},
		{PhaseType: models.PhaseGroupStage, GroupName: &b, Team1ID: 2, Team2ID: 4, Status: models.MatchStatusPending},
	}
	rows := ComputeGroupStandings(roster, matches, 3)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].TeamID != 1 || rows[1].TeamID != 3 || rows[2].TeamID != 2 || rows[3].TeamID != 4 {
		t.Errorf("tied rows not in registration order within groups: %v", rows)
	}
}

func TestSelectGroupQualifiers(t *testing.T) {
	roster := testRoster(4)
	matches := []models.Match{
		groupMatch("Group A", 1, 1, 2, 30, 20),
		groupMatch("Group B", 1, 3, 4, 30, 20),
	}
	rows := ComputeGroupStandings(roster, matches, 3)
	qualifiers := SelectGroupQualifiers(rows, 1)
	if len(qualifiers) != 2 {
		t.Fatalf("expected 2 qualifiers, got %d", len(qualifiers))
	}
	if qualifiers[0].ID != 1 || qualifiers[1].ID != 3 {
		t.Errorf("qualifiers = %v, want teams 1 and 3", qualifiers)
	}
	qualified := 0
	for _, row := range rows {
		if row.Qualified {
			qualified++
		}
	}
	if qualified != 2 {
		t.Errorf("%d rows marked qualified, want 2", qualified)
	}
}

func TestPlayInStatsTrackRoundsSeparately(t *testing.T) {
	roster := testRoster(4)
	matches := []models.Match{
		playInMatch(models.BlocA, 1, 1, 2, 2, 1, 40, 35),
		playInMatch(models.BlocA, 2, 3, 4, 2, 0, 38, 20),
	}
	rows := ComputePlayInStats(roster, matches, 3)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	byID := make(map[int]models.PlayInTeamStats)
	for _, r := range rows {
		byID[r.TeamID] = r
	}
	one := byID[1]
	if one.MatchesWon != 1 || one.RoundsWon != 2 || one.RoundsLost != 1 || one.RoundDifference != 1 {
		t.Errorf("team 1 line = %+v; match and round tallies must stay separate", one)
	}
	two := byID[2]
	if two.MatchesWon != 0 || two.MatchesLost != 1 || two.RoundsWon != 1 {
		t.Errorf("team 2 line = %+v", two)
	}
}

// Nine-team play-in: 8 in bloc A, a singleton bloc B pool, three wildcards.
func TestSelectPlayInQualifiersNineTeams(t *testing.T) {
	roster := testRoster(9)
	cfg, err := ComputePlayInStructure(9)
	if err != nil {
		t.Fatalf("ComputePlayInStructure(9): %v", err)
	}

	// Teams 1-8 in bloc A; team 9 is the unmatched pool.
	matches := []models.Match{
		playInMatch(models.BlocA, 1, 1, 2, 2, 0, 50, 48),
		playInMatch(models.BlocA, 2, 3, 4, 2, 1, 45, 30),
		playInMatch(models.BlocA, 3, 5, 6, 2, 0, 40, 44),
		playInMatch(models.BlocA, 4, 7, 8, 2, 1, 35, 20),
	}
	stats := ComputePlayInStats(roster, matches, 3)

	q, err := SelectPlayInQualifiers(cfg, stats, matches, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("SelectPlayInQualifiers returned error: %v", err)
	}
	if len(q.Qualifiers) != 8 {
		t.Fatalf("qualified %d teams, want 8", len(q.Qualifiers))
	}

	// Bloc A winners first, in match order, then the pool singleton.
	wantDirect := []int{1, 3, 5, 7, 9}
	for i, want := range wantDirect {
		if q.Qualifiers[i].ID != want {
			t.Errorf("direct qualifier %d = team %d, want %d", i, q.Qualifiers[i].ID, want)
		}
	}

	// Wildcards by kills among the bloc A losers: 2 (48), 6 (44), 4 (30).
	wantWild := []int{2, 6, 4}
	for i, want := range wantWild {
		got := q.Qualifiers[len(wantDirect)+i]
		if got.ID != want {
			t.Errorf("wildcard %d = team %d, want %d", i, got.ID, want)
		}
	}

	// No double qualification, and wildcard flags only on wildcards.
	direct := make(map[int]bool)
	for _, id := range wantDirect {
		direct[id] = true
	}
	for _, row := range q.Stats {
		if row.IsWildcard && direct[row.TeamID] {
			t.Errorf("team %d is both a direct qualifier and a wildcard", row.TeamID)
		}
		if row.IsWildcard && !row.Qualified {
			t.Errorf("wildcard team %d not marked qualified", row.TeamID)
		}
	}
}

// Six-team play-in: bloc A is done but the bloc B pool match is still open.
// Qualification must refuse rather than crown a pool leader on zero data.
func TestSelectPlayInQualifiersRequiresFinishedBlocB(t *testing.T) {
	roster := testRoster(6)
	cfg, err := ComputePlayInStructure(6)
	if err != nil {
		t.Fatalf("ComputePlayInStructure(6): %v", err)
	}
	open := playInMatch(models.BlocB, 1, 5, 6, 0, 0, 0, 0)
	open.Status = models.MatchStatusPending
	open.WinnerID, open.LoserID = nil, nil
	matches := []models.Match{
		playInMatch(models.BlocA, 1, 1, 2, 2, 0, 30, 25),
		playInMatch(models.BlocA, 2, 3, 4, 2, 1, 28, 22),
		open,
	}
	stats := ComputePlayInStats(roster, matches, 3)
	_, err = SelectPlayInQualifiers(cfg, stats, matches, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrPlayInIncomplete) {
		t.Fatalf("expected ErrPlayInIncomplete while bloc B is unfinished, got %v", err)
	}
}

func TestSelectPlayInQualifiersRequiresFinishedBlocA(t *testing.T) {
	roster := testRoster(5)
	cfg, _ := ComputePlayInStructure(5)
	open := playInMatch(models.BlocA, 2, 3, 4, 0, 0, 0, 0)
	open.Status = models.MatchStatusPending
	open.WinnerID, open.LoserID = nil, nil
	matches := []models.Match{
		playInMatch(models.BlocA, 1, 1, 2, 2, 0, 30, 25),
		open,
	}
	stats := ComputePlayInStats(roster, matches, 3)
	if _, err := SelectPlayInQualifiers(cfg, stats, matches, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected an error while bloc A is unfinished")
	}
}
