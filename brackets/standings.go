package brackets

import (
	"sort"

	"github.com/codmarena/codm-tournaments/models"
)

// ComputeLeaderboard folds a tournament's full match history into the
// leaderboard projection. It is a read-time view, recomputed on demand.
//
// For groups_only formats the order is the points chain (points, wins,
// kills). For elimination formats the bracket outcome pins the podium: the
// final's winner and loser take 1st and 2nd, the third-place decider settles
// 3rd and 4th when it was played, and everyone else follows on the points
// chain.
func ComputeLeaderboard(format models.TournamentFormat, roster []TeamSeed, matches []models.Match, pointsPerWin int) []models.LeaderboardRow {
	rows := make([]models.LeaderboardRow, 0, len(roster))
	index := make(map[int]int, len(roster))
	for _, seed := range roster {
		index[seed.ID] = len(rows)
		rows = append(rows, models.LeaderboardRow{TeamID: seed.ID, TeamName: seed.Name})
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if i, ok := index[*m.WinnerID]; ok {
			rows[i].Wins++
			rows[i].Points += pointsPerWin
			rows[i].MatchesPlayed++
		}
		if m.LoserID != nil {
			if i, ok := index[*m.LoserID]; ok {
				rows[i].Losses++
				rows[i].MatchesPlayed++
			}
		}
		if m.Result != nil {
			for _, ts := range m.Result.TeamStats {
				if i, ok := index[ts.TeamID]; ok {
					rows[i].TotalKills += ts.Kills
					rows[i].RoundsWon += ts.RoundsWon
				}
			}
		}
	}

	byChain := func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].TotalKills > rows[j].TotalKills
	}

	if format == models.FormatGroupsOnly {
		sort.SliceStable(rows, byChain)
		for i := range rows {
			rows[i].Rank = i + 1
		}
		return rows
	}

	// Elimination formats: pin the podium from the bracket, then append the
	// rest on the points chain.
	pinned := make([]int, 0, 4)
	pinnedSet := make(map[int]bool, 4)
	pin := func(teamID int) {
		if _, ok := index[teamID]; ok && !pinnedSet[teamID] {
			pinned = append(pinned, teamID)
			pinnedSet[teamID] = true
		}
	}

	final, third, semis := bracketDeciders(matches)
	if final != nil && final.Status == models.MatchStatusCompleted && final.WinnerID != nil {
		pin(*final.WinnerID)
		if final.LoserID != nil {
			pin(*final.LoserID)
		}
		if third != nil && third.Status == models.MatchStatusCompleted && third.WinnerID != nil {
			pin(*third.WinnerID)
			if third.LoserID != nil {
				pin(*third.LoserID)
			}
		} else if len(semis) == 2 {
			// No decider played: rank the losing semifinalists on the chain.
			losers := make([]int, 0, 2)
			for _, sm := range semis {
				if sm.Status == models.MatchStatusCompleted && sm.LoserID != nil {
					losers = append(losers, *sm.LoserID)
				}
			}
			sort.SliceStable(losers, func(a, b int) bool {
				return byChain(index[losers[a]], index[losers[b]])
			})
			for _, id := range losers {
				pin(id)
			}
		}
	}

	rest := make([]models.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		if !pinnedSet[row.TeamID] {
			rest = append(rest, row)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Points != rest[j].Points {
			return rest[i].Points > rest[j].Points
		}
		if rest[i].Wins != rest[j].Wins {
			return rest[i].Wins > rest[j].Wins
		}
		return rest[i].TotalKills > rest[j].TotalKills
	})

	ordered := make([]models.LeaderboardRow, 0, len(rows))
	for _, id := range pinned {
		ordered = append(ordered, rows[index[id]])
	}
	ordered = append(ordered, rest...)
	for i := range ordered {
		ordered[i].Rank = i + 1
	}
	return ordered
}

// bracketDeciders picks the final, the third-place decider and the semifinal
// matches out of the elimination phase, by round number.
func bracketDeciders(matches []models.Match) (final, third *models.Match, semis []models.Match) {
	maxRound := 0
	for _, m := range matches {
		if m.PhaseType == models.PhaseElimination && m.Round != nil && *m.Round > maxRound {
			maxRound = *m.Round
		}
	}
	if maxRound == 0 {
		return nil, nil, nil
	}
	var topNormal []*models.Match
	for i := range matches {
		m := &matches[i]
		if m.PhaseType != models.PhaseElimination || m.Round == nil {
			continue
		}
		switch {
		case *m.Round == maxRound && m.IsThirdPlaceMatch:
			third = m
		case *m.Round == maxRound:
			topNormal = append(topNormal, m)
		case *m.Round == maxRound-1 && !m.IsThirdPlaceMatch:
			semis = append(semis, *m)
		}
	}
	// The top round is the final round only when it holds a single regular
	// match; several means the bracket is still mid-flight.
	if len(topNormal) == 1 {
		final = topNormal[0]
	} else {
		third = nil
		semis = nil
	}
	return final, third, semis
}

// ComputePlayerLeaderboard accumulates per-player kills across every
// recorded match result, ranked by kills descending.
func ComputePlayerLeaderboard(matches []models.Match) []models.PlayerLeaderboardRow {
	rows := make([]models.PlayerLeaderboardRow, 0)
	index := make(map[int]int)
	for _, m := range matches {
		if m.Result == nil {
			continue
		}
		for _, pk := range m.Result.PlayerKills {
			i, ok := index[pk.PlayerID]
			if !ok {
				i = len(rows)
				index[pk.PlayerID] = i
				rows = append(rows, models.PlayerLeaderboardRow{
					PlayerID: pk.PlayerID,
					TeamID:   pk.TeamID,
					Name:     pk.Name,
				})
			}
			rows[i].Kills += pk.Kills
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Kills > rows[j].Kills })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
