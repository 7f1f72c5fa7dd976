package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codmarena/codm-tournaments/brackets"
	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]models.Match, error)
	SubmitResult(ctx context.Context, matchID int, result *models.MatchResult) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	bracket   BracketService
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	bracket BracketService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		bracket:   bracket,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// SubmitResult validates and attaches a result, closing the match. For
// elimination matches it then nudges round advancement; the resolver no-ops
// until the whole round is in, so every submission can safely trigger it.
func (s *matchService) SubmitResult(ctx context.Context, matchID int, result *models.MatchResult) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d", ErrResultAlreadyEntered, matchID)
	}
	if err := result.Validate(match); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	winnerID := result.WinnerTeamID()
	loserID := match.Team1ID
	if winnerID == match.Team1ID {
		loserID = match.Team2ID
	}

	match.Result = result
	match.Status = models.MatchStatusCompleted
	match.WinnerID = &winnerID
	match.LoserID = &loserID

	if err := s.matchRepo.UpdateResult(ctx, nil, match); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "match result recorded",
		slog.Int("match_id", match.ID),
		slog.Int("tournament_id", match.TournamentID),
		slog.String("phase", string(match.PhaseType)),
		slog.Int("winner_id", winnerID))

	s.hub.BroadcastTournament(match.TournamentID, brackets.EventMatchUpdated, match)

	if match.PhaseType == models.PhaseElimination && match.Round != nil {
		if _, err := s.bracket.AdvanceEliminationRound(ctx, match.TournamentID, *match.Round); err != nil {
			// The result is saved; a failed advancement is retried on the next
			// submission or by an explicit admin call.
			s.logger.ErrorContext(ctx, "round advancement failed after result entry",
				slog.Int("match_id", match.ID), slog.Any("error", err))
		}
	}

	s.hub.BroadcastTournament(match.TournamentID, brackets.EventLeaderboardChanged, nil)
	return match, nil
}
