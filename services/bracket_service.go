package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/codmarena/codm-tournaments/brackets"
	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

// BracketService orchestrates phase generation and round advancement. Every
// generate operation runs check-then-insert inside a single transaction so a
// phase either materializes completely or not at all; the unique match index
// backstops concurrent generation attempts.
type BracketService interface {
	GenerateGroupStage(ctx context.Context, tournamentID int) ([]models.Match, error)
	GeneratePlayIn(ctx context.Context, tournamentID int) ([]models.Match, error)
	GenerateElimination(ctx context.Context, tournamentID int) ([]models.Match, error)
	AdvanceEliminationRound(ctx context.Context, tournamentID, round int) (*brackets.RoundOutcome, error)
	PlayInStructure(ctx context.Context, tournamentID int) (*brackets.PlayInConfig, error)
	ResetPhase(ctx context.Context, tournamentID int, phase models.PhaseType) (int, error)
}

type bracketService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) GenerateGroupStage(ctx context.Context, tournamentID int) ([]models.Match, error) {
	tournament, roster, err := s.loadRoster(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.HasGroupPhase() {
		return nil, fmt.Errorf("%w: format %s has no group stage", ErrWrongPhase, tournament.Format)
	}
	if tournament.Status != models.TournamentStatusRegistration {
		return nil, fmt.Errorf("%w: tournament is in status %s", ErrWrongPhase, tournament.Status)
	}
	if tournament.GroupStage == nil {
		return nil, ErrGroupConfigMissing
	}

	generator := brackets.NewGenerator(nil)
	matches, err := generator.GenerateGroupStage(tournamentID, roster, brackets.GroupStageOptions{
		TeamsPerGroup: tournament.GroupStage.TeamsPerGroup,
		SingleGroup:   tournament.Format == models.FormatGroupsOnly,
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistPhase(ctx, tournament, models.PhaseGroupStage, matches, models.TournamentStatusGroupStage); err != nil {
		return nil, err
	}
	s.broadcastPhase(tournament.ID, models.PhaseGroupStage, matches)
	return matches, nil
}

func (s *bracketService) GeneratePlayIn(ctx context.Context, tournamentID int) ([]models.Match, error) {
	tournament, roster, err := s.loadRoster(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatEliminationDirect {
		return nil, fmt.Errorf("%w: play-in only applies to the direct elimination format", ErrWrongPhase)
	}
	if tournament.Status != models.TournamentStatusRegistration {
		return nil, fmt.Errorf("%w: tournament is in status %s", ErrWrongPhase, tournament.Status)
	}

	cfg, err := brackets.ComputePlayInStructure(len(roster))
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: %d teams fill the bracket exactly, no play-in needed", ErrWrongPhase, len(roster))
	}

	// The draw assigns blocs: the shuffled roster's head pairs off in bloc A,
	// the tail forms the bloc B pool.
	generator := brackets.NewGenerator(nil)
	shuffled := generator.Shuffle(roster)
	blocA := shuffled[:cfg.BlocATeams]
	blocB := shuffled[cfg.BlocATeams:cfg.PlayInFieldSize()]

	matchesA, err := generator.GeneratePlayInBlocA(tournamentID, blocA, 1)
	if err != nil {
		return nil, err
	}
	matches := matchesA
	if len(blocB) >= 2 {
		matchesB, err := generator.GeneratePlayInBlocB(tournamentID, blocB, len(matchesA)+1)
		if err != nil {
			return nil, err
		}
		matches = append(matches, matchesB...)
	}

	if err := s.persistPhase(ctx, tournament, models.PhasePlayIn, matches, models.TournamentStatusPlayIn); err != nil {
		return nil, err
	}
	s.broadcastPhase(tournament.ID, models.PhasePlayIn, matches)
	return matches, nil
}

func (s *bracketService) GenerateElimination(ctx context.Context, tournamentID int) ([]models.Match, error) {
	tournament, roster, err := s.loadRoster(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var field []brackets.TeamSeed
	switch tournament.Status {
	case models.TournamentStatusRegistration:
		if tournament.Format != models.FormatEliminationDirect {
			return nil, fmt.Errorf("%w: format %s cannot jump straight to elimination", ErrWrongPhase, tournament.Format)
		}
		field = roster

	case models.TournamentStatusGroupStage:
		if tournament.Format != models.FormatGroupsThenElimination {
			return nil, fmt.Errorf("%w: format %s has no elimination stage after groups", ErrWrongPhase, tournament.Format)
		}
		field, err = s.groupQualifiers(ctx, tournament, roster)
		if err != nil {
			return nil, err
		}

	case models.TournamentStatusPlayIn:
		field, err = s.playInQualifiers(ctx, tournament, roster)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: tournament is in status %s", ErrWrongPhase, tournament.Status)
	}

	globalStart, err := s.matchRepo.MaxGlobalNumber(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	generator := brackets.NewGenerator(nil)
	matches, err := generator.GenerateEliminationRound(tournamentID, field, globalStart+1)
	if err != nil {
		return nil, err
	}

	if err := s.persistPhase(ctx, tournament, models.PhaseElimination, matches, models.TournamentStatusElimination); err != nil {
		return nil, err
	}
	s.broadcastPhase(tournament.ID, models.PhaseElimination, matches)
	return matches, nil
}

// AdvanceEliminationRound resolves one elimination round into the next. It is
// safe to call repeatedly: while the round is open it no-ops, and once the
// next round exists the guard inside the transaction refuses to double-insert.
func (s *bracketService) AdvanceEliminationRound(ctx context.Context, tournamentID, round int) (*brackets.RoundOutcome, error) {
	phase := models.PhaseElimination
	roundMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{
		Phase: &phase,
		Round: &round,
	})
	if err != nil {
		return nil, err
	}
	if len(roundMatches) == 0 {
		return nil, fmt.Errorf("%w: no elimination matches at round %d", ErrMatchNotFound, round)
	}

	outcome, err := brackets.AdvanceRound(tournamentID, roundMatches)
	if err != nil {
		return nil, err
	}

	if outcome.Complete {
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.TournamentStatusCompleted); err != nil {
			return nil, mapRepositoryError(err)
		}
		s.hub.BroadcastTournament(tournamentID, brackets.EventTournamentComplete, map[string]interface{}{
			"champion_id": outcome.ChampionID,
		})
		s.logger.InfoContext(ctx, "tournament completed",
			slog.Int("tournament_id", tournamentID), slog.Any("champion_id", outcome.ChampionID))
		return &outcome, nil
	}

	if len(outcome.NextMatches) == 0 {
		return &outcome, nil
	}

	globalStart, err := s.matchRepo.MaxGlobalNumber(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	for i := range outcome.NextMatches {
		outcome.NextMatches[i].GlobalNumber = globalStart + 1 + i
	}

	nextRound := round + 1
	err = s.runInTx(ctx, func(tx *sql.Tx) error {
		count, err := s.matchRepo.CountByPhaseRound(ctx, tx, tournamentID, models.PhaseElimination, nextRound)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: elimination round %d", ErrAlreadyGenerated, nextRound)
		}
		for i := range outcome.NextMatches {
			if err := s.matchRepo.Create(ctx, tx, &outcome.NextMatches[i]); err != nil {
				return mapRepositoryError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastPhase(tournamentID, models.PhaseElimination, outcome.NextMatches)
	return &outcome, nil
}

func (s *bracketService) PlayInStructure(ctx context.Context, tournamentID int) (*brackets.PlayInConfig, error) {
	_, roster, err := s.loadRoster(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	cfg, err := brackets.ComputePlayInStructure(len(roster))
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResetPhase wipes the matches of one phase so it can be regenerated after a
// draw dispute. Results entered in that phase are lost.
func (s *bracketService) ResetPhase(ctx context.Context, tournamentID int, phase models.PhaseType) (int, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return 0, mapRepositoryError(err)
	}
	deleted, err := s.matchRepo.DeleteByTournamentPhase(ctx, nil, tournamentID, phase)
	if err != nil {
		return 0, err
	}
	s.logger.WarnContext(ctx, "phase reset",
		slog.Int("tournament_id", tournamentID), slog.String("phase", string(phase)), slog.Int("deleted", deleted))
	return deleted, nil
}

func (s *bracketService) loadRoster(ctx context.Context, tournamentID int) (*models.Tournament, []brackets.TeamSeed, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}

	validated := models.TeamStatusValidated
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, &validated)
	if err != nil {
		return nil, nil, err
	}
	plain := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		plain = append(plain, *t)
	}

	roster, err := brackets.NormalizeRoster(plain)
	if err != nil {
		return nil, nil, err
	}
	return tournament, roster, nil
}

func (s *bracketService) groupQualifiers(ctx context.Context, tournament *models.Tournament, roster []brackets.TeamSeed) ([]brackets.TeamSeed, error) {
	phase := models.PhaseGroupStage
	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, repositories.MatchFilter{Phase: &phase})
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("%w: group match %d", ErrPhaseNotFinished, m.ID)
		}
	}

	standings := brackets.ComputeGroupStandings(roster, matches, tournament.PointsPerWin)
	qualifiers := brackets.SelectGroupQualifiers(standings, tournament.GroupStage.QualifiersPerGroup)
	if len(qualifiers) < 2 {
		return nil, fmt.Errorf("%w: only %d group qualifiers", brackets.ErrInsufficientParticipants, len(qualifiers))
	}
	return qualifiers, nil
}

func (s *bracketService) playInQualifiers(ctx context.Context, tournament *models.Tournament, roster []brackets.TeamSeed) ([]brackets.TeamSeed, error) {
	cfg, err := brackets.ComputePlayInStructure(len(roster))
	if err != nil {
		return nil, err
	}

	phase := models.PhasePlayIn
	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, repositories.MatchFilter{Phase: &phase})
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("%w: play-in match %d", ErrPhaseNotFinished, m.ID)
		}
	}

	stats := brackets.ComputePlayInStats(roster, matches, tournament.PointsPerWin)
	qualification, err := brackets.SelectPlayInQualifiers(cfg, stats, matches, nil)
	if err != nil {
		return nil, err
	}
	return qualification.Qualifiers, nil
}

// persistPhase inserts a generated phase and moves the tournament into it,
// all inside one transaction.
func (s *bracketService) persistPhase(ctx context.Context, tournament *models.Tournament, phase models.PhaseType, matches []models.Match, nextStatus models.TournamentStatus) error {
	if !isValidStatusTransition(tournament.Status, nextStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, tournament.Status, nextStatus)
	}

	err := s.runInTx(ctx, func(tx *sql.Tx) error {
		count, err := s.matchRepo.CountByPhase(ctx, tx, tournament.ID, phase)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s has %d matches", ErrAlreadyGenerated, phase, count)
		}
		for i := range matches {
			if err := s.matchRepo.Create(ctx, tx, &matches[i]); err != nil {
				return mapRepositoryError(err)
			}
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, nextStatus)
	})
	if err != nil {
		return err
	}

	tournament.Status = nextStatus
	s.logger.InfoContext(ctx, "phase generated",
		slog.Int("tournament_id", tournament.ID),
		slog.String("phase", string(phase)),
		slog.Int("matches", len(matches)))
	return nil
}

func (s *bracketService) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *bracketService) broadcastPhase(tournamentID int, phase models.PhaseType, matches []models.Match) {
	s.hub.BroadcastTournament(tournamentID, brackets.EventPhaseGenerated, map[string]interface{}{
		"phase":   phase,
		"matches": matches,
	})
}
