package models

import "time"

// TeamStatus mirrors the team_status ENUM in the database.
type TeamStatus string

const (
	TeamStatusPending   TeamStatus = "pending"
	TeamStatusValidated TeamStatus = "validated"
	TeamStatusRejected  TeamStatus = "rejected"
)

// Team is a registered participant unit. Only validated teams enter the
// bracket engine.
type Team struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Tag          *string    `json:"tag,omitempty" db:"tag"`
	CaptainEmail string     `json:"captain_email" db:"captain_email"`
	Status       TeamStatus `json:"status" db:"status"`
	// Key of the uploaded gameplay verification video in object storage.
	VideoKey  *string   `json:"-" db:"video_key"`
	VideoURL  *string   `json:"video_url,omitempty" db:"-"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"players,omitempty" db:"-"`
}

// Player is a roster member of a team, identified by the in-game UID.
type Player struct {
	ID         int       `json:"id" db:"id"`
	TeamID     int       `json:"team_id" db:"team_id"`
	InGameName string    `json:"in_game_name" db:"in_game_name"`
	GameUID    string    `json:"game_uid" db:"game_uid"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
