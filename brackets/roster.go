package brackets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codmarena/codm-tournaments/models"
)

var (
	ErrInsufficientParticipants = errors.New("not enough participants (minimum 2 required)")
	ErrDuplicateTeam            = errors.New("duplicate team in roster")
)

// TeamSeed is the canonical engine input: one eligible team, in registration
// order. Registration order is the deterministic tie-break of last resort for
// every ranking in this package.
type TeamSeed struct {
	ID   int
	Name string
}

// NormalizeRoster filters a tournament's teams down to the validated ones and
// shapes them for the engine. Teams that never passed moderation are skipped,
// not rejected; duplicates are an input error.
func NormalizeRoster(teams []models.Team) ([]TeamSeed, error) {
	seeds := make([]TeamSeed, 0, len(teams))
	seenID := make(map[int]bool, len(teams))
	seenName := make(map[string]bool, len(teams))

	for _, t := range teams {
		if t.Status != models.TeamStatusValidated {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("team %d has an empty name", t.ID)
		}
		if seenID[t.ID] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateTeam, t.ID)
		}
		lower := strings.ToLower(name)
		if seenName[lower] {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateTeam, name)
		}
		seenID[t.ID] = true
		seenName[lower] = true
		seeds = append(seeds, TeamSeed{ID: t.ID, Name: name})
	}

	if len(seeds) < 2 {
		return nil, fmt.Errorf("%w: found %d validated teams", ErrInsufficientParticipants, len(seeds))
	}
	return seeds, nil
}
