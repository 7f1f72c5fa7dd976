package models

import "time"

type AdminRole string

const (
	RoleAdmin     AdminRole = "admin"
	RoleModerator AdminRole = "moderator"
)

// AdminUser is a staff account for the moderation surface. Players never
// authenticate; team registration is open.
type AdminUser struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         AdminRole `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
