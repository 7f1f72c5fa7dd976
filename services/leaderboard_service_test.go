package services

import (
	"context"
	"testing"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

type stubTournamentRepo struct {
	tournament *models.Tournament
}

func (s *stubTournamentRepo) Create(ctx context.Context, t *models.Tournament) error { return nil }

func (s *stubTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if s.tournament == nil || s.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *s.tournament
	return &copied, nil
}

func (s *stubTournamentRepo) GetBySlug(ctx context.Context, slug string) (*models.Tournament, error) {
	return nil, repositories.ErrTournamentNotFound
}

func (s *stubTournamentRepo) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentRepo) Update(ctx context.Context, t *models.Tournament) error { return nil }

func (s *stubTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	return nil
}

func (s *stubTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return nil
}

func (s *stubTournamentRepo) Delete(ctx context.Context, id int) error { return nil }

type stubTeamRepo struct {
	teams []*models.Team
}

func (s *stubTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	return nil
}

func (s *stubTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, repositories.ErrTeamNotFound
}

func (s *stubTeamRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]*models.Team, error) {
	if status == nil {
		return s.teams, nil
	}
	filtered := make([]*models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		if t.Status == *status {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *stubTeamRepo) UpdateStatus(ctx context.Context, id int, status models.TeamStatus) error {
	return nil
}

func (s *stubTeamRepo) UpdateVideoKey(ctx context.Context, id int, videoKey string) error {
	return nil
}

func (s *stubTeamRepo) AddPlayers(ctx context.Context, exec repositories.SQLExecutor, teamID int, players []models.Player) ([]models.Player, error) {
	return players, nil
}

func (s *stubTeamRepo) ListPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	return nil, nil
}

// A tournament that just opened has no validated teams yet; the public
// leaderboard and standings endpoints must serve an empty projection, not an
// error.
func TestLeaderboardEmptyForFreshTournament(t *testing.T) {
	tournamentRepo := &stubTournamentRepo{tournament: &models.Tournament{
		ID:           42,
		Format:       models.FormatEliminationDirect,
		Status:       models.TournamentStatusRegistration,
		PointsPerWin: 3,
	}}
	teamRepo := &stubTeamRepo{teams: []*models.Team{
		{ID: 1, TournamentID: 42, Name: "Alpha", Status: models.TeamStatusPending},
	}}
	matchRepo := &stubMatchRepo{matches: map[int]*models.Match{}}

	svc := NewLeaderboardService(tournamentRepo, teamRepo, matchRepo)

	rows, err := svc.Leaderboard(context.Background(), 42)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected an empty leaderboard, got %d rows", len(rows))
	}

	standings, err := svc.GroupStandings(context.Background(), 42)
	if err != nil {
		t.Fatalf("GroupStandings returned error: %v", err)
	}
	if len(standings) != 0 {
		t.Errorf("expected empty standings, got %d rows", len(standings))
	}
}
