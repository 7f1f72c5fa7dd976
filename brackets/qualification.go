package brackets

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/codmarena/codm-tournaments/models"
)

var ErrPlayInIncomplete = errors.New("play-in stage has unfinished matches")

// ComputeGroupStandings folds completed group-stage matches into per-group
// standings rows, sorted and positioned within each group.
//
// The sort chain is points, then wins, then kills, all descending. Rows are
// seeded in roster (registration) order and sorted stably, so exact ties
// rank by registration order rather than arbitrarily.
func ComputeGroupStandings(roster []TeamSeed, matches []models.Match, pointsPerWin int) []models.GroupStanding {
	groupOf := make(map[int]string)
	for _, m := range matches {
		if m.PhaseType != models.PhaseGroupStage || m.GroupName == nil {
			continue
		}
		groupOf[m.Team1ID] = *m.GroupName
		groupOf[m.Team2ID] = *m.GroupName
	}

	rows := make([]models.GroupStanding, 0, len(roster))
	index := make(map[int]int, len(roster))
	for _, seed := range roster {
		group, ok := groupOf[seed.ID]
		if !ok {
			continue
		}
		index[seed.ID] = len(rows)
		rows = append(rows, models.GroupStanding{
			TeamID:    seed.ID,
			TeamName:  seed.Name,
			GroupName: group,
		})
	}

	for _, m := range matches {
		if m.PhaseType != models.PhaseGroupStage || m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if i, ok := index[*m.WinnerID]; ok {
			rows[i].Wins++
			rows[i].Points += pointsPerWin
		}
		if m.LoserID != nil {
			if i, ok := index[*m.LoserID]; ok {
				rows[i].Losses++
			}
		}
		if m.Result != nil {
			for _, ts := range m.Result.TeamStats {
				if i, ok := index[ts.TeamID]; ok {
					rows[i].Kills += ts.Kills
				}
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GroupName != rows[j].GroupName {
			return rows[i].GroupName < rows[j].GroupName
		}
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Kills > rows[j].Kills
	})

	position := 0
	currentGroup := ""
	for i := range rows {
		if rows[i].GroupName != currentGroup {
			currentGroup = rows[i].GroupName
			position = 0
		}
		position++
		rows[i].Position = position
	}
	return rows
}

// SelectGroupQualifiers marks the top perGroup teams of each group as
// qualified and returns them as seeds, group by group in standings order.
func SelectGroupQualifiers(standings []models.GroupStanding, perGroup int) []TeamSeed {
	qualifiers := make([]TeamSeed, 0)
	for i := range standings {
		if standings[i].Position <= perGroup {
			standings[i].Qualified = true
			qualifiers = append(qualifiers, TeamSeed{ID: standings[i].TeamID, Name: standings[i].TeamName})
		}
	}
	return qualifiers
}

// ComputePlayInStats folds play-in matches into per-team stat rows. Match
// and round tallies are tracked separately: bloc progression is decided on
// rounds, but a team still has a match record.
//
// The roster is the full play-in field. Bloc membership is read back from
// the matches; a team with no play-in match at all can only be a singleton
// bloc B pool, so it is assigned there with a blank record.
func ComputePlayInStats(roster []TeamSeed, matches []models.Match, pointsPerWin int) []models.PlayInTeamStats {
	blocOf := make(map[int]models.BlocType)
	for _, m := range matches {
		if m.PhaseType != models.PhasePlayIn || m.BlocType == nil {
			continue
		}
		blocOf[m.Team1ID] = *m.BlocType
		blocOf[m.Team2ID] = *m.BlocType
	}

	rows := make([]models.PlayInTeamStats, 0, len(roster))
	index := make(map[int]int, len(roster))
	for _, seed := range roster {
		bloc, ok := blocOf[seed.ID]
		if !ok {
			bloc = models.BlocB
		}
		index[seed.ID] = len(rows)
		rows = append(rows, models.PlayInTeamStats{
			TeamID:   seed.ID,
			TeamName: seed.Name,
			Bloc:     bloc,
		})
	}

	for _, m := range matches {
		if m.PhaseType != models.PhasePlayIn || m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if i, ok := index[*m.WinnerID]; ok {
			rows[i].MatchesWon++
			rows[i].Points += pointsPerWin
		}
		if m.LoserID != nil {
			if i, ok := index[*m.LoserID]; ok {
				rows[i].MatchesLost++
			}
		}
		if m.Result == nil {
			continue
		}
		stats := m.Result.TeamStats
		for k, ts := range stats {
			i, ok := index[ts.TeamID]
			if !ok {
				continue
			}
			opponent := stats[1-k]
			rows[i].RoundsWon += ts.RoundsWon
			rows[i].RoundsLost += opponent.RoundsWon
			rows[i].TotalKills += ts.Kills
		}
	}

	for i := range rows {
		rows[i].RoundDifference = rows[i].RoundsWon - rows[i].RoundsLost
	}
	return rows
}

// PlayInQualification is the resolved outcome of a finished play-in stage.
type PlayInQualification struct {
	// Qualifiers holds the full elimination field: bloc A winners, the bloc
	// B leader, then wildcards, in qualification order.
	Qualifiers []TeamSeed
	// Stats are the input rows with Qualified/IsWildcard flags set.
	Stats []models.PlayInTeamStats
}

// SelectPlayInQualifiers resolves a completed play-in stage into the
// elimination field.
//
// Direct qualification rewards bracket performance: every bloc A winner is
// through, and bloc B sends its pool leaders by rounds won, round
// difference, then points. Wildcards reward offensive output among the
// eliminated: total kills first, then rounds won, round difference, and a
// random draw for exact ties (rnd is injectable for tests; nil gets a
// time-seeded source).
func SelectPlayInQualifiers(cfg PlayInConfig, stats []models.PlayInTeamStats, matches []models.Match, rnd *rand.Rand) (PlayInQualification, error) {
	out := PlayInQualification{Stats: make([]models.PlayInTeamStats, len(stats))}
	copy(out.Stats, stats)

	index := make(map[int]int, len(out.Stats))
	for i := range out.Stats {
		index[out.Stats[i].TeamID] = i
	}

	qualify := func(teamID int, wildcard bool) {
		i := index[teamID]
		out.Stats[i].Qualified = true
		out.Stats[i].IsWildcard = wildcard
		out.Qualifiers = append(out.Qualifiers, TeamSeed{ID: out.Stats[i].TeamID, Name: out.Stats[i].TeamName})
	}

	// Every play-in match must be decided before qualification resolves: a
	// partial bloc B pool would rank teams on rounds they never played.
	blocA := make([]models.Match, 0)
	for _, m := range matches {
		if m.PhaseType != models.PhasePlayIn {
			continue
		}
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			return out, fmt.Errorf("%w: match %d", ErrPlayInIncomplete, m.ID)
		}
		if m.BlocType != nil && *m.BlocType == models.BlocA {
			blocA = append(blocA, m)
		}
	}
	// Bloc A winners qualify in match order.
	sort.SliceStable(blocA, func(i, j int) bool { return blocA[i].MatchNumber < blocA[j].MatchNumber })
	for _, m := range blocA {
		qualify(*m.WinnerID, false)
	}

	// Bloc B pool leaders.
	if cfg.QualifiersBlocB > 0 {
		blocB := make([]models.PlayInTeamStats, 0)
		for _, row := range out.Stats {
			if row.Bloc == models.BlocB {
				blocB = append(blocB, row)
			}
		}
		sort.SliceStable(blocB, func(i, j int) bool {
			if blocB[i].RoundsWon != blocB[j].RoundsWon {
				return blocB[i].RoundsWon > blocB[j].RoundsWon
			}
			if blocB[i].RoundDifference != blocB[j].RoundDifference {
				return blocB[i].RoundDifference > blocB[j].RoundDifference
			}
			return blocB[i].Points > blocB[j].Points
		})
		for i := 0; i < cfg.QualifiersBlocB && i < len(blocB); i++ {
			qualify(blocB[i].TeamID, false)
		}
	}

	// Wildcards from everyone not already through.
	if cfg.WildcardsNeeded > 0 {
		candidates := make([]models.PlayInTeamStats, 0)
		for _, row := range out.Stats {
			if !rowQualified(out.Stats, index, row.TeamID) {
				candidates = append(candidates, row)
			}
		}
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		// Shuffle first so the stable sort breaks exact ties randomly.
		rnd.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].TotalKills != candidates[j].TotalKills {
				return candidates[i].TotalKills > candidates[j].TotalKills
			}
			if candidates[i].RoundsWon != candidates[j].RoundsWon {
				return candidates[i].RoundsWon > candidates[j].RoundsWon
			}
			return candidates[i].RoundDifference > candidates[j].RoundDifference
		})
		if len(candidates) < cfg.WildcardsNeeded {
			return out, fmt.Errorf("need %d wildcards but only %d candidates remain", cfg.WildcardsNeeded, len(candidates))
		}
		for i := 0; i < cfg.WildcardsNeeded; i++ {
			qualify(candidates[i].TeamID, true)
		}
	}

	if len(out.Qualifiers) != cfg.TargetBracketSize {
		return out, fmt.Errorf("qualified %d teams for a bracket of %d", len(out.Qualifiers), cfg.TargetBracketSize)
	}
	return out, nil
}

func rowQualified(stats []models.PlayInTeamStats, index map[int]int, teamID int) bool {
	i, ok := index[teamID]
	return ok && stats[i].Qualified
}
