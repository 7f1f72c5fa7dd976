package brackets

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/codmarena/codm-tournaments/models"
)

var (
	ErrGroupConfigMissing  = errors.New("group stage requires a teams-per-group setting of at least 2")
	ErrOddEliminationField = errors.New("elimination round requires an even number of teams")
	ErrOddBlocAField       = errors.New("play-in bloc A requires an even number of teams")
)

// Generator produces the pending matches for one phase of a tournament. It
// never touches storage; callers persist what it returns.
//
// The shuffle source is injected so tests can pin a seed. Live draws pass a
// nil source and get time-seeded randomness, matching the expectation that a
// draw is not predictable.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rnd: rand.New(src)}
}

// GroupStageOptions parameterizes group generation.
type GroupStageOptions struct {
	// TeamsPerGroup splits the shuffled roster into contiguous slices of this
	// size. Ignored when SingleGroup is set.
	TeamsPerGroup int
	// SingleGroup puts the whole roster into one group (groups_only format).
	SingleGroup bool
	// GlobalNumberStart seeds the tournament-wide running match counter.
	// Zero means start at 1.
	GlobalNumberStart int
}

// GenerateGroupStage shuffles the roster, partitions it into groups and
// emits every round-robin pairing within each group. Match numbers restart
// at 1 per group; the global number runs across the whole call.
//
// Partitioning slices the shuffled list contiguously (teams 0..k-1 form the
// first group, and so on) rather than dealing teams round-robin. Both were
// tried in earlier drafts of this system; slicing is the live behavior and
// the only one exposed.
func (g *Generator) GenerateGroupStage(tournamentID int, roster []TeamSeed, opts GroupStageOptions) ([]models.Match, error) {
	if len(roster) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(roster))
	}
	if !opts.SingleGroup && opts.TeamsPerGroup < 2 {
		return nil, ErrGroupConfigMissing
	}

	shuffled := g.shuffle(roster)

	var groups [][]TeamSeed
	if opts.SingleGroup {
		groups = [][]TeamSeed{shuffled}
	} else {
		for start := 0; start < len(shuffled); start += opts.TeamsPerGroup {
			end := start + opts.TeamsPerGroup
			if end > len(shuffled) {
				end = len(shuffled)
			}
			groups = append(groups, shuffled[start:end])
		}
	}

	global := opts.GlobalNumberStart
	if global < 1 {
		global = 1
	}

	matches := make([]models.Match, 0)
	for gi, group := range groups {
		groupName := fmt.Sprintf("Group %c", 'A'+gi)
		matchNumber := 1
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				name := groupName
				matches = append(matches, models.Match{
					TournamentID: tournamentID,
					PhaseType:    models.PhaseGroupStage,
					GroupName:    &name,
					MatchNumber:  matchNumber,
					GlobalNumber: global,
					Team1ID:      group[i].ID,
					Team2ID:      group[j].ID,
					Team1Name:    group[i].Name,
					Team2Name:    group[j].Name,
					Status:       models.MatchStatusPending,
				})
				matchNumber++
				global++
			}
		}
	}
	return matches, nil
}

// GeneratePlayInBlocA shuffles the bloc and pairs teams sequentially into
// single-elimination matches, all at round 1.
func (g *Generator) GeneratePlayInBlocA(tournamentID int, teams []TeamSeed, globalStart int) ([]models.Match, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(teams))
	}
	if len(teams)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddBlocAField, len(teams))
	}

	shuffled := g.shuffle(teams)
	return pairSequential(tournamentID, shuffled, models.PhasePlayIn, blocPtr(models.BlocA), 1, globalStart), nil
}

// GeneratePlayInBlocB emits a full round-robin among the pool teams, all at
// round 1.
func (g *Generator) GeneratePlayInBlocB(tournamentID int, teams []TeamSeed, globalStart int) ([]models.Match, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(teams))
	}

	global := normalizeGlobal(globalStart)
	bloc := blocPtr(models.BlocB)
	round := 1

	matches := make([]models.Match, 0, len(teams)*(len(teams)-1)/2)
	matchNumber := 1
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, models.Match{
				TournamentID: tournamentID,
				PhaseType:    models.PhasePlayIn,
				BlocType:     bloc,
				Round:        &round,
				MatchNumber:  matchNumber,
				GlobalNumber: global,
				Team1ID:      teams[i].ID,
				Team2ID:      teams[j].ID,
				Team1Name:    teams[i].Name,
				Team2Name:    teams[j].Name,
				Status:       models.MatchStatusPending,
			})
			matchNumber++
			global++
		}
	}
	return matches, nil
}

// GenerateEliminationRound shuffles the field and pairs it sequentially into
// the first elimination round. Odd fields are rejected: the field must be a
// power of two, or have been reduced to one by the play-in.
func (g *Generator) GenerateEliminationRound(tournamentID int, teams []TeamSeed, globalStart int) ([]models.Match, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(teams))
	}
	if len(teams)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddEliminationField, len(teams))
	}

	shuffled := g.shuffle(teams)
	return pairSequential(tournamentID, shuffled, models.PhaseElimination, nil, 1, globalStart), nil
}

// Shuffle returns a shuffled copy of the roster; callers use it to draw bloc
// membership before generating per-bloc matches.
func (g *Generator) Shuffle(teams []TeamSeed) []TeamSeed {
	return g.shuffle(teams)
}

// shuffle returns a shuffled copy, leaving the roster's registration order
// intact for later tie-breaking.
func (g *Generator) shuffle(teams []TeamSeed) []TeamSeed {
	out := make([]TeamSeed, len(teams))
	copy(out, teams)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func pairSequential(tournamentID int, teams []TeamSeed, phase models.PhaseType, bloc *models.BlocType, round int, globalStart int) []models.Match {
	global := normalizeGlobal(globalStart)
	matches := make([]models.Match, 0, len(teams)/2)
	for i := 0; i+1 < len(teams); i += 2 {
		r := round
		matches = append(matches, models.Match{
			TournamentID: tournamentID,
			PhaseType:    phase,
			BlocType:     bloc,
			Round:        &r,
			MatchNumber:  i/2 + 1,
			GlobalNumber: global,
			Team1ID:      teams[i].ID,
			Team2ID:      teams[i+1].ID,
			Team1Name:    teams[i].Name,
			Team2Name:    teams[i+1].Name,
			Status:       models.MatchStatusPending,
		})
		global++
	}
	return matches
}

func normalizeGlobal(start int) int {
	if start < 1 {
		return 1
	}
	return start
}

func blocPtr(b models.BlocType) *models.BlocType {
	return &b
}
