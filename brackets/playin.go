package brackets

import (
	"fmt"
	"math/bits"
)

// PlayInConfig describes how a non-power-of-two field is reduced to a
// power-of-two elimination bracket. It is a pure computation result, never
// persisted.
type PlayInConfig struct {
	Enabled           bool `json:"enabled"`
	TotalTeams        int  `json:"total_teams"`
	TargetBracketSize int  `json:"target_bracket_size"`
	BlocATeams        int  `json:"bloc_a_teams"`
	BlocBTeams        int  `json:"bloc_b_teams"`
	QualifiersBlocA   int  `json:"qualifiers_bloc_a"`
	QualifiersBlocB   int  `json:"qualifiers_bloc_b"`
	DirectQualifiers  int  `json:"direct_qualifiers"`
	WildcardsNeeded   int  `json:"wildcards_needed"`
}

// ComputePlayInStructure splits a field of totalTeams into the two play-in
// blocks needed to reach the largest power of two not exceeding it.
//
// Bloc B (round-robin pool) takes at most 3 of the surplus teams; Bloc A
// (paired single elimination) takes the rest plus, when its count would be
// odd, one team shifted over from Bloc B so every Bloc A team has an
// opponent. Each Bloc A pair sends its winner through, Bloc B sends its pool
// leader, and the remaining bracket slots are filled by wildcards.
func ComputePlayInStructure(totalTeams int) (PlayInConfig, error) {
	if totalTeams < 2 {
		return PlayInConfig{}, fmt.Errorf("play-in structure requires at least 2 teams, got %d", totalTeams)
	}

	cfg := PlayInConfig{TotalTeams: totalTeams}

	if isPowerOfTwo(totalTeams) {
		cfg.TargetBracketSize = totalTeams
		return cfg, nil
	}

	cfg.Enabled = true
	cfg.TargetBracketSize = 1 << (bits.Len(uint(totalTeams)) - 1)
	toEliminate := totalTeams - cfg.TargetBracketSize

	// Every team enters the play-in: Bloc B takes a small round-robin pool
	// from the surplus, Bloc A pairs off everyone else.
	cfg.BlocBTeams = min(3, toEliminate)
	cfg.BlocATeams = totalTeams - cfg.BlocBTeams

	if cfg.BlocATeams%2 != 0 {
		// Bloc A pairs off, so it must be even. Shift one team from the pool.
		cfg.BlocATeams++
		cfg.BlocBTeams--
	}

	cfg.QualifiersBlocA = cfg.BlocATeams / 2
	if cfg.BlocBTeams > 0 {
		cfg.QualifiersBlocB = 1
	}
	cfg.DirectQualifiers = cfg.QualifiersBlocA + cfg.QualifiersBlocB
	cfg.WildcardsNeeded = cfg.TargetBracketSize - cfg.DirectQualifiers
	if cfg.WildcardsNeeded < 0 {
		cfg.WildcardsNeeded = 0
	}

	return cfg, nil
}

// PlayInFieldSize is the number of teams that enter the play-in stage.
func (c PlayInConfig) PlayInFieldSize() int {
	return c.BlocATeams + c.BlocBTeams
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
