package services

import "errors"

// Sentinel errors shared across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules.
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidFormat        = errors.New("unknown tournament format")
	ErrGroupConfigMissing   = errors.New("format requires a group stage configuration")
	ErrRegistrationNotOpen  = errors.New("tournament registration is not open")
	ErrTournamentFull       = errors.New("tournament registration is full")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamNotValidated     = errors.New("team has not passed verification")
	ErrPlayersRequired      = errors.New("a team roster needs at least one player")
	ErrResultAlreadyEntered = errors.New("match already has a result")
	ErrWrongPhase           = errors.New("operation does not apply to the tournament's current phase")
	ErrAlreadyGenerated     = errors.New("matches for this phase are already generated")
	ErrPhaseNotFinished     = errors.New("current phase still has unfinished matches")

	// Conflicts.
	ErrTeamNameConflict       = errors.New("team name is already taken in this tournament")
	ErrTournamentSlugConflict = errors.New("tournament slug already exists")

	// Authentication and authorization.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrAdminNotFound      = errors.New("admin user not found")

	// Tournament lifecycle.
	ErrTournamentInvalidDates            = errors.New("tournament dates are inconsistent")
	ErrTournamentInvalidCapacity         = errors.New("tournament max teams must be at least 2")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
)
