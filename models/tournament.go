package models

import "time"

// TournamentStatus tracks which phase a tournament is in, matching the
// tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusDraft        TournamentStatus = "draft"
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusGroupStage   TournamentStatus = "group_stage"
	TournamentStatusPlayIn       TournamentStatus = "play_in"
	TournamentStatusElimination  TournamentStatus = "elimination"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

// TournamentFormat selects how the schedule is built.
type TournamentFormat string

const (
	FormatEliminationDirect     TournamentFormat = "elimination_direct"
	FormatGroupsThenElimination TournamentFormat = "groups_then_elimination"
	FormatGroupsOnly            TournamentFormat = "groups_only"
)

// GroupStageConfig parameterizes group generation for formats that have a
// group phase.
type GroupStageConfig struct {
	TeamsPerGroup      int `json:"teams_per_group" db:"teams_per_group"`
	QualifiersPerGroup int `json:"qualifiers_per_group" db:"qualifiers_per_group"`
}

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Slug        string           `json:"slug" db:"slug"`
	Description *string          `json:"description,omitempty" db:"description"`
	GameMode    string           `json:"game_mode" db:"game_mode"`
	Format      TournamentFormat `json:"format" db:"format"`
	Status      TournamentStatus `json:"status" db:"status"`
	// PointsPerWin feeds the leaderboard projection. 3 unless overridden.
	PointsPerWin int               `json:"points_per_win" db:"points_per_win"`
	GroupStage   *GroupStageConfig `json:"group_stage,omitempty" db:"-"`
	MaxTeams     int               `json:"max_teams" db:"max_teams"`
	RegOpenAt    time.Time         `json:"reg_open_at" db:"reg_open_at"`
	RegCloseAt   time.Time         `json:"reg_close_at" db:"reg_close_at"`
	StartAt      time.Time         `json:"start_at" db:"start_at"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	LogoKey      *string           `json:"-" db:"logo_key"`
	LogoURL      *string           `json:"logo_url,omitempty" db:"-"`

	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

// HasGroupPhase reports whether the format starts with a group stage.
func (t *Tournament) HasGroupPhase() bool {
	return t.Format == FormatGroupsOnly || t.Format == FormatGroupsThenElimination
}
