package models

// GroupStanding is a per-team row within a group, derived from completed
// group-stage matches. Wins/Losses count matches.
type GroupStanding struct {
	TeamID    int    `json:"team_id"`
	TeamName  string `json:"team_name"`
	GroupName string `json:"group_name"`
	Points    int    `json:"points"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Kills     int    `json:"kills"`
	Position  int    `json:"position"`
	Qualified bool   `json:"qualified"`
}

// PlayInTeamStats is the per-team row for play-in participants. Unlike group
// standings, progression here is decided on rounds, so match and round
// tallies are kept in separate fields.
type PlayInTeamStats struct {
	TeamID          int      `json:"team_id"`
	TeamName        string   `json:"team_name"`
	Bloc            BlocType `json:"bloc"`
	MatchesWon      int      `json:"matches_won"`
	MatchesLost     int      `json:"matches_lost"`
	RoundsWon       int      `json:"rounds_won"`
	RoundsLost      int      `json:"rounds_lost"`
	RoundDifference int      `json:"round_difference"`
	Points          int      `json:"points"`
	TotalKills      int      `json:"total_kills"`
	Qualified       bool     `json:"qualified"`
	IsWildcard      bool     `json:"is_wildcard"`
}

// LeaderboardRow is the read-time projection row for tournament leaderboards.
type LeaderboardRow struct {
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name"`
	Rank          int    `json:"rank"`
	Points        int    `json:"points"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	MatchesPlayed int    `json:"matches_played"`
	TotalKills    int    `json:"total_kills"`
	RoundsWon     int    `json:"rounds_won"`
}

// PlayerLeaderboardRow accumulates per-player kill statistics across a
// tournament.
type PlayerLeaderboardRow struct {
	PlayerID int    `json:"player_id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Kills    int    `json:"kills"`
	Rank     int    `json:"rank"`
}
