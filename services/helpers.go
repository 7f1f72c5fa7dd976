package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
	"github.com/codmarena/codm-tournaments/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateTournamentDates(regOpen, regClose, start time.Time) error {
	if regOpen.IsZero() || regClose.IsZero() || start.IsZero() {
		return fmt.Errorf("%w: all dates are required", ErrTournamentInvalidDates)
	}
	if !regOpen.Before(regClose) {
		return fmt.Errorf("%w: registration must open (%s) before it closes (%s)",
			ErrTournamentInvalidDates, regOpen.Format(time.RFC3339), regClose.Format(time.RFC3339))
	}
	if start.Before(regClose) {
		return fmt.Errorf("%w: start (%s) cannot precede registration close (%s)",
			ErrTournamentInvalidDates, start.Format(time.RFC3339), regClose.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentStatusDraft:        {models.TournamentStatusRegistration, models.TournamentStatusCanceled},
		models.TournamentStatusRegistration: {models.TournamentStatusGroupStage, models.TournamentStatusPlayIn, models.TournamentStatusElimination, models.TournamentStatusCanceled},
		models.TournamentStatusGroupStage:   {models.TournamentStatusElimination, models.TournamentStatusCompleted, models.TournamentStatusCanceled},
		models.TournamentStatusPlayIn:       {models.TournamentStatusElimination, models.TournamentStatusCanceled},
		models.TournamentStatusElimination:  {models.TournamentStatusCompleted, models.TournamentStatusCanceled},
		models.TournamentStatusCompleted:    {},
		models.TournamentStatusCanceled:     {},
	}
	for _, status := range allowed[current] {
		if next == status {
			return true
		}
	}
	return false
}

func populateTournamentLogoURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || uploader == nil || t.LogoKey == nil || *t.LogoKey == "" {
		return
	}
	if url := uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func populateTeamMediaURLs(team *models.Team, uploader storage.FileUploader) {
	if team == nil || uploader == nil {
		return
	}
	if team.LogoKey != nil && *team.LogoKey != "" {
		if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
	if team.VideoKey != nil && *team.VideoKey != "" {
		if url := uploader.GetPublicURL(*team.VideoKey); url != "" {
			team.VideoURL = &url
		}
	}
}

// mapRepositoryError translates repository sentinels into the service
// taxonomy so handlers only ever switch on service errors.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrAdminNotFound):
		return ErrAdminNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTournamentSlugConflict):
		return ErrTournamentSlugConflict
	case errors.Is(err, repositories.ErrMatchNumberConflict):
		return ErrAlreadyGenerated
	}
	return err
}

// GetExtensionFromContentType resolves an upload's file extension from its
// declared content type. Only the media types the platform stores are
// accepted.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "video/mp4":
		return ".mp4", nil
	case "video/webm":
		return ".webm", nil
	case "video/quicktime":
		return ".mov", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && (parts[0] == "image" || parts[0] == "video") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
