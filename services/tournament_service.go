package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
	"github.com/codmarena/codm-tournaments/storage"
)

type TournamentService interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetBySlug(ctx context.Context, slugValue string) (*models.Tournament, error)
	GetWithDetails(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	AutoUpdateStatuses(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, t *models.Tournament) error {
	if err := s.validate(t); err != nil {
		return err
	}

	if t.Status == "" {
		t.Status = models.TournamentStatusDraft
	}
	if t.PointsPerWin <= 0 {
		t.PointsPerWin = 3
	}
	t.Slug = slug.Make(t.Name)

	if err := mapRepositoryError(s.tournamentRepo.Create(ctx, t)); err != nil {
		return fmt.Errorf("failed to create tournament %q: %w", t.Name, err)
	}
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	populateTournamentLogoURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) GetBySlug(ctx context.Context, slugValue string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	populateTournamentLogoURL(t, s.uploader)
	return t, nil
}

// GetWithDetails loads the tournament together with its teams and matches,
// fanning the two list queries out in parallel.
func (s *tournamentService) GetWithDetails(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load teams for tournament %d: %w", id, err)
		}
		t.Teams = make([]models.Team, 0, len(teams))
		for _, team := range teams {
			populateTeamMediaURLs(team, s.uploader)
			t.Teams = append(t.Teams, *team)
		}
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, id, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to load matches for tournament %d: %w", id, err)
		}
		t.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		populateTournamentLogoURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, t *models.Tournament) error {
	current, err := s.tournamentRepo.GetByID(ctx, t.ID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if current.Status != models.TournamentStatusDraft && current.Status != models.TournamentStatusRegistration {
		return fmt.Errorf("%w: tournament %d is in status %s", ErrWrongPhase, t.ID, current.Status)
	}
	if err := s.validate(t); err != nil {
		return err
	}
	t.Slug = slug.Make(t.Name)
	return mapRepositoryError(s.tournamentRepo.Update(ctx, t))
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !isValidStatusTransition(t.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, status)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, mapRepositoryError(err)
	}
	t.Status = status
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if t.Status != models.TournamentStatusDraft && t.Status != models.TournamentStatusCanceled {
		return fmt.Errorf("%w: only draft or canceled tournaments can be deleted", ErrForbiddenOperation)
	}
	return mapRepositoryError(s.tournamentRepo.Delete(ctx, id))
}

// AutoUpdateStatuses opens registration for draft tournaments whose window
// has started. Closing registration is a phase-generation decision and stays
// with the admins; the scheduler only logs tournaments that are overdue.
func (s *tournamentService) AutoUpdateStatuses(ctx context.Context) error {
	now := time.Now()

	draft := models.TournamentStatusDraft
	drafts, err := s.tournamentRepo.List(ctx, &draft)
	if err != nil {
		return fmt.Errorf("scheduler: failed to list draft tournaments: %w", err)
	}
	for _, t := range drafts {
		if now.Before(t.RegOpenAt) {
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.TournamentStatusRegistration); err != nil {
			s.logger.ErrorContext(ctx, "scheduler: failed to open registration",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		s.logger.InfoContext(ctx, "scheduler: registration opened",
			slog.Int("tournament_id", t.ID), slog.String("slug", t.Slug))
	}

	reg := models.TournamentStatusRegistration
	open, err := s.tournamentRepo.List(ctx, &reg)
	if err != nil {
		return fmt.Errorf("scheduler: failed to list open tournaments: %w", err)
	}
	for _, t := range open {
		if now.After(t.RegCloseAt) {
			s.logger.InfoContext(ctx, "scheduler: registration window closed, awaiting phase generation",
				slog.Int("tournament_id", t.ID), slog.String("slug", t.Slug))
		}
	}
	return nil
}

func (s *tournamentService) validate(t *models.Tournament) error {
	if t.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	switch t.Format {
	case models.FormatEliminationDirect, models.FormatGroupsThenElimination, models.FormatGroupsOnly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, t.Format)
	}
	if t.HasGroupPhase() {
		if t.GroupStage == nil || t.GroupStage.TeamsPerGroup < 2 {
			return ErrGroupConfigMissing
		}
		if t.Format == models.FormatGroupsThenElimination && t.GroupStage.QualifiersPerGroup < 1 {
			return fmt.Errorf("%w: qualifiers per group must be at least 1", ErrGroupConfigMissing)
		}
	}
	if t.MaxTeams < 2 {
		return ErrTournamentInvalidCapacity
	}
	return validateTournamentDates(t.RegOpenAt, t.RegCloseAt, t.StartAt)
}
