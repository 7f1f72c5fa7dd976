package brackets

import (
	"testing"

	"github.com/codmarena/codm-tournaments/models"
)

// completedMatch builds a finished elimination match where team1 beat team2.
func completedMatch(round, number, winID, loseID int, thirdPlace bool) models.Match {
	r := round
	w, l := winID, loseID
	return models.Match{
		TournamentID:      10,
		PhaseType:         models.PhaseElimination,
		Round:             &r,
		MatchNumber:       number,
		Team1ID:           winID,
		Team2ID:           loseID,
		Team1Name:         "W",
		Team2Name:         "L",
		IsThirdPlaceMatch: thirdPlace,
		Status:            models.MatchStatusCompleted,
		WinnerID:          &w,
		LoserID:           &l,
	}
}

func TestAdvanceQuarterfinals(t *testing.T) {
	round := []models.Match{
		completedMatch(1, 1, 1, 2, false),
		completedMatch(1, 2, 3, 4, false),
		completedMatch(1, 3, 5, 6, false),
		completedMatch(1, 4, 7, 8, false),
	}
	out, err := AdvanceRound(10, round)
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if out.Complete {
		t.Fatal("bracket marked complete after quarterfinals")
	}
	if len(out.NextMatches) != 2 {
		t.Fatalf("expected 2 semifinal matches, got %d", len(out.NextMatches))
	}
	sf1, sf2 := out.NextMatches[0], out.NextMatches[1]
	if sf1.Team1ID != 1 || sf1.Team2ID != 3 || sf2.Team1ID != 5 || sf2.Team2ID != 7 {
		t.Errorf("winners not paired in match order: got (%d,%d) and (%d,%d)",
			sf1.Team1ID, sf1.Team2ID, sf2.Team1ID, sf2.Team2ID)
	}
	if *sf1.Round != 2 || *sf2.Round != 2 {
		t.Errorf("next round not tagged round 2")
	}
	if out.NextRoundName != "Semifinals" {
		t.Errorf("next round named %q, want Semifinals", out.NextRoundName)
	}
}

func TestAdvanceSemifinalsCreatesFinalAndThirdPlace(t *testing.T) {
	round := []models.Match{
		completedMatch(2, 1, 1, 3, false),
		completedMatch(2, 2, 5, 7, false),
	}
	out, err := AdvanceRound(10, round)
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if len(out.NextMatches) != 2 {
		t.Fatalf("expected final + third-place, got %d matches", len(out.NextMatches))
	}

	final := out.NextMatches[0]
	third := out.NextMatches[1]
	if final.IsThirdPlaceMatch || !third.IsThirdPlaceMatch {
		t.Fatal("third-place flag on the wrong match")
	}
	if final.MatchNumber != 1 || third.MatchNumber != 2 {
		t.Errorf("match numbers %d/%d, want 1/2", final.MatchNumber, third.MatchNumber)
	}
	if final.Team1ID != 1 || final.Team2ID != 5 {
		t.Errorf("final pairs %d vs %d, want winners 1 vs 5", final.Team1ID, final.Team2ID)
	}
	if third.Team1ID != 3 || third.Team2ID != 7 {
		t.Errorf("third-place pairs %d vs %d, want losers 3 vs 7", third.Team1ID, third.Team2ID)
	}
	if *final.Round != 3 || *third.Round != 3 {
		t.Errorf("final round tagged %d/%d, want 3", *final.Round, *third.Round)
	}
	if out.NextRoundName != "Final" {
		t.Errorf("next round named %q, want Final", out.NextRoundName)
	}
}

func TestAdvanceCompletesAfterFinalAndThirdPlace(t *testing.T) {
	round := []models.Match{
		completedMatch(3, 1, 1, 5, false),
		completedMatch(3, 2, 3, 7, true),
	}
	out, err := AdvanceRound(10, round)
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if !out.Complete {
		t.Fatal("expected bracket complete")
	}
	if out.ChampionID == nil || *out.ChampionID != 1 {
		t.Errorf("champion = %v, want 1", out.ChampionID)
	}
	if len(out.NextMatches) != 0 {
		t.Errorf("completed bracket produced %d new matches", len(out.NextMatches))
	}
}

func TestAdvanceWaitsForThirdPlace(t *testing.T) {
	pendingThird := completedMatch(3, 2, 3, 7, true)
	pendingThird.Status = models.MatchStatusPending
	pendingThird.WinnerID, pendingThird.LoserID = nil, nil

	out, err := AdvanceRound(10, []models.Match{
		completedMatch(3, 1, 1, 5, false),
		pendingThird,
	})
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if out.Complete || len(out.NextMatches) != 0 {
		t.Error("expected a no-op while the third-place decider is pending")
	}
}

func TestAdvanceWaitsForOpenRound(t *testing.T) {
	open := completedMatch(1, 2, 3, 4, false)
	open.Status = models.MatchStatusPending
	open.WinnerID, open.LoserID = nil, nil

	out, err := AdvanceRound(10, []models.Match{
		completedMatch(1, 1, 1, 2, false),
		open,
	})
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if out.Complete || len(out.NextMatches) != 0 {
		t.Error("expected a no-op while the round is still open")
	}
}

func TestTwoTeamBracketCompletesOnFinal(t *testing.T) {
	out, err := AdvanceRound(10, []models.Match{completedMatch(1, 1, 1, 2, false)})
	if err != nil {
		t.Fatalf("AdvanceRound returned error: %v", err)
	}
	if !out.Complete || out.ChampionID == nil || *out.ChampionID != 1 {
		t.Error("single-match bracket did not resolve to its winner")
	}
}

func TestRoundNames(t *testing.T) {
	total := EliminationRounds(16)
	if total != 4 {
		t.Fatalf("EliminationRounds(16) = %d, want 4", total)
	}
	names := map[int]string{1: "Round of 16", 2: "Quarterfinals", 3: "Semifinals", 4: "Final"}
	for round, want := range names {
		if got := RoundName(total, round); got != want {
			t.Errorf("RoundName(%d, %d) = %q, want %q", total, round, got, want)
		}
	}
	if got := RoundName(6, 1); got != "Round 1" {
		t.Errorf("deep round name = %q, want Round 1", got)
	}
}
