package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
	"github.com/codmarena/codm-tournaments/storage"
)

type TeamService interface {
	Register(ctx context.Context, team *models.Team, players []models.Player) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]*models.Team, error)
}

type teamService struct {
	db             *sql.DB
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		db:             db,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

// Register enrolls a team with its player roster. Registration is open to
// anyone while the window is; the team starts pending and only plays after
// verification.
func (s *teamService) Register(ctx context.Context, team *models.Team, players []models.Player) (*models.Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if len(players) == 0 {
		return nil, ErrPlayersRequired
	}
	for _, p := range players {
		if strings.TrimSpace(p.InGameName) == "" {
			return nil, fmt.Errorf("%w: every player needs an in-game name", ErrValidationFailed)
		}
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, team.TournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	now := time.Now()
	if tournament.Status != models.TournamentStatusRegistration ||
		now.Before(tournament.RegOpenAt) || now.After(tournament.RegCloseAt) {
		return nil, ErrRegistrationNotOpen
	}

	registered, err := s.teamRepo.ListByTournament(ctx, team.TournamentID, nil)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, t := range registered {
		if t.Status != models.TeamStatusRejected {
			active++
		}
	}
	if active >= tournament.MaxTeams {
		return nil, ErrTournamentFull
	}

	team.Status = models.TeamStatusPending

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.teamRepo.Create(ctx, tx, team); err != nil {
		_ = tx.Rollback()
		return nil, mapRepositoryError(err)
	}
	created, err := s.teamRepo.AddPlayers(ctx, tx, team.ID, players)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit team registration: %w", err)
	}
	team.Players = created

	s.logger.InfoContext(ctx, "team registered",
		slog.Int("tournament_id", team.TournamentID),
		slog.Int("team_id", team.ID),
		slog.String("name", team.Name),
		slog.Int("players", len(created)))
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	players, err := s.teamRepo.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Players = players
	populateTeamMediaURLs(team, s.uploader)
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		populateTeamMediaURLs(team, s.uploader)
	}
	return teams, nil
}
