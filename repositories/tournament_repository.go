package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/codmarena/codm-tournaments/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentSlugConflict = errors.New("tournament slug is already taken")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, slug, description, game_mode, format, status, points_per_win,
	teams_per_group, qualifiers_per_group, max_teams,
	reg_open_at, reg_close_at, start_at, logo_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, slug, description, game_mode, format, status, points_per_win,
			teams_per_group, qualifiers_per_group, max_teams,
			reg_open_at, reg_close_at, start_at, logo_key
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	var teamsPerGroup, qualifiersPerGroup *int
	if t.GroupStage != nil {
		teamsPerGroup = &t.GroupStage.TeamsPerGroup
		qualifiersPerGroup = &t.GroupStage.QualifiersPerGroup
	}

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Slug,
		t.Description,
		t.GameMode,
		t.Format,
		t.Status,
		t.PointsPerWin,
		teamsPerGroup,
		qualifiersPerGroup,
		t.MaxTeams,
		t.RegOpenAt,
		t.RegCloseAt,
		t.StartAt,
		t.LogoKey,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := r.scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetBySlug(ctx context.Context, slug string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE slug = $1`
	t, err := r.scanTournament(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %q: %w", slug, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments`)

	args := []interface{}{}
	if status != nil {
		queryBuilder.WriteString(" WHERE status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY start_at DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	var teamsPerGroup, qualifiersPerGroup *int
	if t.GroupStage != nil {
		teamsPerGroup = &t.GroupStage.TeamsPerGroup
		qualifiersPerGroup = &t.GroupStage.QualifiersPerGroup
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE tournaments
		SET name = $1, slug = $2, description = $3, game_mode = $4, format = $5,
			points_per_win = $6, teams_per_group = $7, qualifiers_per_group = $8,
			max_teams = $9, reg_open_at = $10, reg_close_at = $11, start_at = $12
		WHERE id = $13`,
		t.Name, t.Slug, t.Description, t.GameMode, t.Format,
		t.PointsPerWin, teamsPerGroup, qualifiersPerGroup,
		t.MaxTeams, t.RegOpenAt, t.RegCloseAt, t.StartAt, t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t                  models.Tournament
		teamsPerGroup      sql.NullInt64
		qualifiersPerGroup sql.NullInt64
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Description,
		&t.GameMode,
		&t.Format,
		&t.Status,
		&t.PointsPerWin,
		&teamsPerGroup,
		&qualifiersPerGroup,
		&t.MaxTeams,
		&t.RegOpenAt,
		&t.RegCloseAt,
		&t.StartAt,
		&t.LogoKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if teamsPerGroup.Valid {
		t.GroupStage = &models.GroupStageConfig{
			TeamsPerGroup:      int(teamsPerGroup.Int64),
			QualifiersPerGroup: int(qualifiersPerGroup.Int64),
		}
	}
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "tournaments_slug_key" {
		return ErrTournamentSlugConflict
	}
	return err
}
