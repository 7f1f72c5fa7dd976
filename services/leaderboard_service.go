package services

import (
	"context"
	"errors"

	"github.com/codmarena/codm-tournaments/brackets"
	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

// LeaderboardService is a read-time projection over completed matches; it
// never stores rankings.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, tournamentID int) ([]models.LeaderboardRow, error)
	PlayerLeaderboard(ctx context.Context, tournamentID int) ([]models.PlayerLeaderboardRow, error)
	GroupStandings(ctx context.Context, tournamentID int) ([]models.GroupStanding, error)
	PlayInStats(ctx context.Context, tournamentID int) ([]models.PlayInTeamStats, error)
}

type leaderboardService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
}

func NewLeaderboardService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) LeaderboardService {
	return &leaderboardService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, tournamentID int) ([]models.LeaderboardRow, error) {
	tournament, roster, matches, err := s.load(ctx, tournamentID, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}
	return brackets.ComputeLeaderboard(tournament.Format, roster, matches, tournament.PointsPerWin), nil
}

func (s *leaderboardService) PlayerLeaderboard(ctx context.Context, tournamentID int) ([]models.PlayerLeaderboardRow, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}
	return brackets.ComputePlayerLeaderboard(matches), nil
}

func (s *leaderboardService) GroupStandings(ctx context.Context, tournamentID int) ([]models.GroupStanding, error) {
	phase := models.PhaseGroupStage
	tournament, roster, matches, err := s.load(ctx, tournamentID, repositories.MatchFilter{Phase: &phase})
	if err != nil {
		return nil, err
	}
	return brackets.ComputeGroupStandings(roster, matches, tournament.PointsPerWin), nil
}

func (s *leaderboardService) PlayInStats(ctx context.Context, tournamentID int) ([]models.PlayInTeamStats, error) {
	phase := models.PhasePlayIn
	tournament, roster, matches, err := s.load(ctx, tournamentID, repositories.MatchFilter{Phase: &phase})
	if err != nil {
		return nil, err
	}
	return brackets.ComputePlayInStats(roster, matches, tournament.PointsPerWin), nil
}

func (s *leaderboardService) load(ctx context.Context, tournamentID int, filter repositories.MatchFilter) (*models.Tournament, []brackets.TeamSeed, []models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, nil, nil, mapRepositoryError(err)
	}

	validated := models.TeamStatusValidated
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, &validated)
	if err != nil {
		return nil, nil, nil, err
	}
	plain := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		plain = append(plain, *t)
	}
	roster, err := brackets.NormalizeRoster(plain)
	if err != nil {
		// A fresh tournament with under two validated teams still serves an
		// empty projection; the participant minimum is enforced at generation.
		if !errors.Is(err, brackets.ErrInsufficientParticipants) {
			return nil, nil, nil, err
		}
		roster = nil
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	return tournament, roster, matches, nil
}
