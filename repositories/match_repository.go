package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/codmarena/codm-tournaments/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNumberConflict = errors.New("match number already exists for this phase and round")
)

// MatchFilter narrows ListByTournament. Nil fields are not applied.
type MatchFilter struct {
	Phase  *models.PhaseType
	Bloc   *models.BlocType
	Group  *string
	Round  *int
	Status *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]models.Match, error)
	CountByPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType) (int, error)
	CountByPhaseRound(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType, round int) (int, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	MaxGlobalNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByTournamentPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, phase_type, bloc_type, group_name, round,
	match_number, global_number, team1_id, team2_id, team1_name, team2_name,
	is_third_place_match, status, winner_id, loser_id, result, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (
			tournament_id, phase_type, bloc_type, group_name, round,
			match_number, global_number, team1_id, team2_id, team1_name, team2_name,
			is_third_place_match, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TournamentID,
		match.PhaseType,
		match.BlocType,
		match.GroupName,
		match.Round,
		match.MatchNumber,
		match.GlobalNumber,
		match.Team1ID,
		match.Team2ID,
		match.Team1Name,
		match.Team2Name,
		match.IsThirdPlaceMatch,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "matches_slot_key" {
			return ErrMatchNumberConflict
		}
		return fmt.Errorf("failed to insert match %d of %s: %w", match.MatchNumber, match.PhaseType, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	addCondition := func(column string, value interface{}) {
		queryBuilder.WriteString(" AND " + column + " = $" + strconv.Itoa(len(args)+1))
		args = append(args, value)
	}
	if filter.Phase != nil {
		addCondition("phase_type", *filter.Phase)
	}
	if filter.Bloc != nil {
		addCondition("bloc_type", *filter.Bloc)
	}
	if filter.Group != nil {
		addCondition("group_name", *filter.Group)
	}
	if filter.Round != nil {
		addCondition("round", *filter.Round)
	}
	if filter.Status != nil {
		addCondition("status", *filter.Status)
	}
	queryBuilder.WriteString(" ORDER BY global_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, *match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND phase_type = $2`,
		tournamentID, phase,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s matches for tournament %d: %w", phase, tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountByPhaseRound(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType, round int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND phase_type = $2 AND round = $3`,
		tournamentID, phase, round,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s round %d matches for tournament %d: %w", phase, round, tournamentID, err)
	}
	return count, nil
}

// UpdateResult persists the result payload together with winner, loser and
// status, so a match closes in a single statement.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	var resultJSON []byte
	if match.Result != nil {
		var err error
		resultJSON, err = json.Marshal(match.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal result for match %d: %w", match.ID, err)
		}
	}

	result, err := r.getExecutor(exec).ExecContext(ctx, `
		UPDATE matches
		SET status = $1, winner_id = $2, loser_id = $3, result = $4
		WHERE id = $5`,
		match.Status, match.WinnerID, match.LoserID, resultJSON, match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result for match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MaxGlobalNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var max int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COALESCE(MAX(global_number), 0) FROM matches WHERE tournament_id = $1`,
		tournamentID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read max global number for tournament %d: %w", tournamentID, err)
	}
	return max, nil
}

func (r *postgresMatchRepository) DeleteByTournamentPhase(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.PhaseType) (int, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1 AND phase_type = $2`,
		tournamentID, phase,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s matches for tournament %d: %w", phase, tournamentID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		match      models.Match
		resultJSON []byte
	)
	err := row.Scan(
		&match.ID,
		&match.TournamentID,
		&match.PhaseType,
		&match.BlocType,
		&match.GroupName,
		&match.Round,
		&match.MatchNumber,
		&match.GlobalNumber,
		&match.Team1ID,
		&match.Team2ID,
		&match.Team1Name,
		&match.Team2Name,
		&match.IsThirdPlaceMatch,
		&match.Status,
		&match.WinnerID,
		&match.LoserID,
		&resultJSON,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(resultJSON) > 0 {
		match.Result = &models.MatchResult{}
		if err := json.Unmarshal(resultJSON, match.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result of match %d: %w", match.ID, err)
		}
	}
	return &match, nil
}
