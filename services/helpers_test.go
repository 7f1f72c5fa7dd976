package services

import (
	"errors"
	"testing"
	"time"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.TournamentStatus
		allowed  bool
	}{
		{models.TournamentStatusDraft, models.TournamentStatusRegistration, true},
		{models.TournamentStatusDraft, models.TournamentStatusCanceled, true},
		{models.TournamentStatusDraft, models.TournamentStatusElimination, false},
		{models.TournamentStatusRegistration, models.TournamentStatusGroupStage, true},
		{models.TournamentStatusRegistration, models.TournamentStatusPlayIn, true},
		{models.TournamentStatusRegistration, models.TournamentStatusElimination, true},
		{models.TournamentStatusRegistration, models.TournamentStatusDraft, false},
		{models.TournamentStatusGroupStage, models.TournamentStatusElimination, true},
		{models.TournamentStatusGroupStage, models.TournamentStatusPlayIn, false},
		{models.TournamentStatusPlayIn, models.TournamentStatusElimination, true},
		{models.TournamentStatusElimination, models.TournamentStatusCompleted, true},
		{models.TournamentStatusCompleted, models.TournamentStatusCanceled, false},
		{models.TournamentStatusCanceled, models.TournamentStatusDraft, false},
		{models.TournamentStatusDraft, models.TournamentStatusDraft, true},
	}
	for _, tc := range cases {
		if got := isValidStatusTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("transition %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestValidateTournamentDates(t *testing.T) {
	open := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	close := open.Add(48 * time.Hour)
	start := open.Add(72 * time.Hour)

	if err := validateTournamentDates(open, close, start); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	if err := validateTournamentDates(open, open.Add(-time.Hour), start); err == nil {
		t.Error("close before open must be rejected")
	}
	if err := validateTournamentDates(open, close, close.Add(-time.Minute)); err == nil {
		t.Error("start before registration close must be rejected")
	}
	if err := validateTournamentDates(time.Time{}, close, start); err == nil {
		t.Error("zero open date must be rejected")
	}
}

func TestMapRepositoryError(t *testing.T) {
	cases := []struct {
		in, want error
	}{
		{repositories.ErrTournamentNotFound, ErrTournamentNotFound},
		{repositories.ErrTeamNotFound, ErrTeamNotFound},
		{repositories.ErrMatchNotFound, ErrMatchNotFound},
		{repositories.ErrTeamNameConflict, ErrTeamNameConflict},
		{repositories.ErrTournamentSlugConflict, ErrTournamentSlugConflict},
		// A slot collision during generation means the phase already exists.
		{repositories.ErrMatchNumberConflict, ErrAlreadyGenerated},
	}
	for _, tc := range cases {
		if got := mapRepositoryError(tc.in); !errors.Is(got, tc.want) {
			t.Errorf("mapRepositoryError(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := mapRepositoryError(nil); got != nil {
		t.Errorf("mapRepositoryError(nil) = %v, want nil", got)
	}
}

func TestGetExtensionFromContentType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"video/mp4":       ".mp4",
		"video/webm":      ".webm",
		"video/quicktime": ".mov",
		"image/svg+xml":   ".svg",
	}
	for contentType, want := range cases {
		got, err := GetExtensionFromContentType(contentType)
		if err != nil {
			t.Errorf("GetExtensionFromContentType(%q) returned error: %v", contentType, err)
			continue
		}
		if got != want {
			t.Errorf("GetExtensionFromContentType(%q) = %q, want %q", contentType, got, want)
		}
	}

	if _, err := GetExtensionFromContentType("application/pdf"); err == nil {
		t.Error("non-media content type must be rejected")
	}
}
