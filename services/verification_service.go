package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
	"github.com/codmarena/codm-tournaments/storage"
)

// VerificationService handles the anti-smurf gate: a team uploads a gameplay
// video, a moderator watches it and validates or rejects the roster.
type VerificationService interface {
	UploadVideo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
	Approve(ctx context.Context, teamID int) (*models.Team, error)
	Reject(ctx context.Context, teamID int) (*models.Team, error)
}

type verificationService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewVerificationService(
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) VerificationService {
	return &verificationService{
		teamRepo: teamRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *verificationService) UploadVideo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if team.Status == models.TeamStatusRejected {
		return nil, fmt.Errorf("%w: rejected teams cannot upload verification videos", ErrForbiddenOperation)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("verification/%d/%s%s", team.TournamentID, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload verification video for team %d: %w", teamID, err)
	}

	oldKey := derefString(team.VideoKey)
	if err := s.teamRepo.UpdateVideoKey(ctx, teamID, result.Key); err != nil {
		// Storage write succeeded but the row didn't; drop the orphan object.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete orphaned verification video",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, mapRepositoryError(err)
	}
	if oldKey != "" && oldKey != result.Key {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced verification video",
				slog.String("key", oldKey), slog.Any("error", err))
		}
	}

	team.VideoKey = &result.Key
	team.VideoURL = &result.Location
	s.logger.InfoContext(ctx, "verification video uploaded",
		slog.Int("team_id", teamID), slog.String("key", result.Key))
	return team, nil
}

func (s *verificationService) Approve(ctx context.Context, teamID int) (*models.Team, error) {
	return s.moderate(ctx, teamID, models.TeamStatusValidated)
}

func (s *verificationService) Reject(ctx context.Context, teamID int) (*models.Team, error) {
	return s.moderate(ctx, teamID, models.TeamStatusRejected)
}

func (s *verificationService) moderate(ctx context.Context, teamID int, status models.TeamStatus) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if team.Status == status {
		return team, nil
	}
	if err := s.teamRepo.UpdateStatus(ctx, teamID, status); err != nil {
		return nil, mapRepositoryError(err)
	}
	team.Status = status
	populateTeamMediaURLs(team, s.uploader)
	s.logger.InfoContext(ctx, "team moderated",
		slog.Int("team_id", teamID), slog.String("status", string(status)))
	return team, nil
}
