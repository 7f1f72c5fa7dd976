package brackets

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/codmarena/codm-tournaments/models"
)

var ErrMatchIncomplete = errors.New("completed match is missing winner or loser")

// RoundOutcome is the result of resolving one completed elimination round.
type RoundOutcome struct {
	// NextMatches are the matches of the following round, empty when the
	// round did not resolve into new matches.
	NextMatches []models.Match
	// NextRoundName labels NextMatches for display, e.g. "Semifinals".
	NextRoundName string
	// Complete is set once the final (and the third-place decider, when one
	// exists) has been played.
	Complete bool
	// ChampionID is the winner of the final, set together with Complete.
	ChampionID *int
}

// AdvanceRound consumes the matches of one elimination round and produces
// the next round. Pass the whole round, pending matches included: while any
// match is unfinished the resolver is a no-op, so it tolerates being
// triggered on every result entry as they trickle in.
//
// The semifinal round is special: its two winners meet in the final and its
// two losers in the third-place decider, which shares the final's round
// number and is distinguished by the third-place flag. Earlier rounds pair
// winners in their existing match order; the initial seeding was already a
// full shuffle, so keeping bracket locality is enough.
func AdvanceRound(tournamentID int, roundMatches []models.Match) (RoundOutcome, error) {
	var outcome RoundOutcome
	if len(roundMatches) == 0 {
		return outcome, nil
	}

	normal := make([]models.Match, 0, len(roundMatches))
	thirdPending := false
	for _, m := range roundMatches {
		if m.Status != models.MatchStatusCompleted {
			if m.IsThirdPlaceMatch {
				thirdPending = true
				continue
			}
			// An unfinished regular match means the round is still open.
			return outcome, nil
		}
		if m.WinnerID == nil || m.LoserID == nil {
			return outcome, fmt.Errorf("%w: match %d", ErrMatchIncomplete, m.ID)
		}
		if !m.IsThirdPlaceMatch {
			normal = append(normal, m)
		}
	}
	sort.SliceStable(normal, func(i, j int) bool {
		return normal[i].MatchNumber < normal[j].MatchNumber
	})

	currentRound := 1
	if len(normal) > 0 && normal[0].Round != nil {
		currentRound = *normal[0].Round
	}

	switch {
	case len(normal) == 1:
		// A single non-third-place match is the final. The bracket is done
		// once the third-place decider, when the round has one, is also in.
		if thirdPending {
			return outcome, nil
		}
		outcome.Complete = true
		outcome.ChampionID = normal[0].WinnerID
		return outcome, nil

	case len(normal) == 2:
		// Semifinals: winners to the final, losers to the third-place match.
		nextRound := currentRound + 1
		final := pairMatch(tournamentID, nextRound, 1, winnerSeed(normal[0]), winnerSeed(normal[1]))
		third := pairMatch(tournamentID, nextRound, 2, loserSeed(normal[0]), loserSeed(normal[1]))
		third.IsThirdPlaceMatch = true
		outcome.NextMatches = []models.Match{final, third}
		outcome.NextRoundName = RoundName(nextRound, nextRound)
		return outcome, nil

	case len(normal) > 2:
		if len(normal)%2 != 0 {
			return outcome, fmt.Errorf("%w: %d winners", ErrOddEliminationField, len(normal))
		}
		nextRound := currentRound + 1
		next := make([]models.Match, 0, len(normal)/2)
		for i := 0; i+1 < len(normal); i += 2 {
			next = append(next, pairMatch(tournamentID, nextRound, i/2+1,
				winnerSeed(normal[i]), winnerSeed(normal[i+1])))
		}
		outcome.NextMatches = next
		// This round held 2*len(normal) teams, which fixes how many rounds
		// remain and therefore what the next one is called.
		totalRounds := currentRound - 1 + EliminationRounds(2*len(normal))
		outcome.NextRoundName = RoundName(totalRounds, nextRound)
		return outcome, nil
	}

	// Only a third-place result, or nothing usable: not enough data.
	return outcome, nil
}

// EliminationRounds is the number of rounds a bracket of the given field
// size plays through, e.g. 8 teams -> 3.
func EliminationRounds(fieldSize int) int {
	if fieldSize < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(fieldSize))))
}

// RoundName renders the presentation name of an elimination round, counted
// back from the final: the last round is the Final, the one before it the
// Semifinals, and so on.
func RoundName(totalRounds, round int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	case 3:
		return "Round of 16"
	case 4:
		return "Round of 32"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

func pairMatch(tournamentID, round, matchNumber int, t1, t2 TeamSeed) models.Match {
	r := round
	return models.Match{
		TournamentID: tournamentID,
		PhaseType:    models.PhaseElimination,
		Round:        &r,
		MatchNumber:  matchNumber,
		Team1ID:      t1.ID,
		Team2ID:      t2.ID,
		Team1Name:    t1.Name,
		Team2Name:    t2.Name,
		Status:       models.MatchStatusPending,
	}
}

func winnerSeed(m models.Match) TeamSeed {
	if *m.WinnerID == m.Team1ID {
		return TeamSeed{ID: m.Team1ID, Name: m.Team1Name}
	}
	return TeamSeed{ID: m.Team2ID, Name: m.Team2Name}
}

func loserSeed(m models.Match) TeamSeed {
	if *m.LoserID == m.Team1ID {
		return TeamSeed{ID: m.Team1ID, Name: m.Team1Name}
	}
	return TeamSeed{ID: m.Team2ID, Name: m.Team2Name}
}
