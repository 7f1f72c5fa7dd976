package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/codmarena/codm-tournaments/brackets"
	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

type stubMatchRepo struct {
	matches map[int]*models.Match
	updated *models.Match
}

func (s *stubMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return nil
}

func (s *stubMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *stubMatchRepo) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]models.Match, error) {
	return nil, nil
}

func (s *stubMatchRepo) CountByPhase(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, phase models.PhaseType) (int, error) {
	return 0, nil
}

func (s *stubMatchRepo) CountByPhaseRound(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, phase models.PhaseType, round int) (int, error) {
	return 0, nil
}

func (s *stubMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	copied := *match
	s.updated = &copied
	return nil
}

func (s *stubMatchRepo) MaxGlobalNumber(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	return 0, nil
}

func (s *stubMatchRepo) DeleteByTournamentPhase(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, phase models.PhaseType) (int, error) {
	return 0, nil
}

type stubBracketService struct {
	advanced []int
}

func (s *stubBracketService) GenerateGroupStage(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return nil, nil
}

func (s *stubBracketService) GeneratePlayIn(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return nil, nil
}

func (s *stubBracketService) GenerateElimination(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return nil, nil
}

func (s *stubBracketService) AdvanceEliminationRound(ctx context.Context, tournamentID, round int) (*brackets.RoundOutcome, error) {
	s.advanced = append(s.advanced, round)
	return &brackets.RoundOutcome{}, nil
}

func (s *stubBracketService) PlayInStructure(ctx context.Context, tournamentID int) (*brackets.PlayInConfig, error) {
	return nil, nil
}

func (s *stubBracketService) ResetPhase(ctx context.Context, tournamentID int, phase models.PhaseType) (int, error) {
	return 0, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingEliminationMatch() *models.Match {
	round := 2
	return &models.Match{
		ID:           7,
		TournamentID: 42,
		PhaseType:    models.PhaseElimination,
		Round:        &round,
		MatchNumber:  1,
		Team1ID:      10,
		Team2ID:      20,
		Status:       models.MatchStatusPending,
	}
}

func validResult() *models.MatchResult {
	return &models.MatchResult{
		BestOf: 3,
		TeamStats: [2]models.TeamMatchStats{
			{TeamID: 10, Kills: 35, RoundsWon: 2},
			{TeamID: 20, Kills: 30, RoundsWon: 1},
		},
		Rounds: []models.RoundResult{
			{Number: 1, WinnerTeamID: 10},
			{Number: 2, WinnerTeamID: 20},
			{Number: 3, WinnerTeamID: 10},
		},
	}
}

func TestSubmitResultClosesMatchAndTriggersAdvancement(t *testing.T) {
	repo := &stubMatchRepo{matches: map[int]*models.Match{7: pendingEliminationMatch()}}
	bracket := &stubBracketService{}
	hub := brackets.NewHub()
	svc := NewMatchService(repo, bracket, hub, testLogger())

	match, err := svc.SubmitResult(context.Background(), 7, validResult())
	if err != nil {
		t.Fatalf("SubmitResult returned error: %v", err)
	}
	if match.Status != models.MatchStatusCompleted {
		t.Errorf("status = %s, want completed", match.Status)
	}
	if match.WinnerID == nil || *match.WinnerID != 10 {
		t.Errorf("winner = %v, want 10", match.WinnerID)
	}
	if match.LoserID == nil || *match.LoserID != 20 {
		t.Errorf("loser = %v, want 20", match.LoserID)
	}
	if repo.updated == nil {
		t.Fatal("result was not persisted")
	}
	if len(bracket.advanced) != 1 || bracket.advanced[0] != 2 {
		t.Errorf("advancement calls = %v, want [2]", bracket.advanced)
	}
}

func TestSubmitResultRejectsSecondEntry(t *testing.T) {
	done := pendingEliminationMatch()
	done.Status = models.MatchStatusCompleted
	repo := &stubMatchRepo{matches: map[int]*models.Match{7: done}}
	svc := NewMatchService(repo, &stubBracketService{}, brackets.NewHub(), testLogger())

	_, err := svc.SubmitResult(context.Background(), 7, validResult())
	if !errors.Is(err, ErrResultAlreadyEntered) {
		t.Errorf("expected ErrResultAlreadyEntered, got %v", err)
	}
}

func TestSubmitResultRejectsInconsistentRounds(t *testing.T) {
	repo := &stubMatchRepo{matches: map[int]*models.Match{7: pendingEliminationMatch()}}
	svc := NewMatchService(repo, &stubBracketService{}, brackets.NewHub(), testLogger())

	bad := validResult()
	bad.Rounds = bad.Rounds[:2] // round list no longer matches per-team tallies
	_, err := svc.SubmitResult(context.Background(), 7, bad)
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
	if repo.updated != nil {
		t.Error("invalid result must not be persisted")
	}
}

func TestSubmitResultUnknownMatch(t *testing.T) {
	repo := &stubMatchRepo{matches: map[int]*models.Match{}}
	svc := NewMatchService(repo, &stubBracketService{}, brackets.NewHub(), testLogger())

	_, err := svc.SubmitResult(context.Background(), 99, validResult())
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}
