package brackets

import (
	"errors"
	"testing"

	"github.com/codmarena/codm-tournaments/models"
)

func TestNormalizeRosterFiltersAndPreservesOrder(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Night Raid", Status: models.TeamStatusValidated},
		{ID: 2, Name: "Pending Crew", Status: models.TeamStatusPending},
		{ID: 3, Name: "  Ghost Unit  ", Status: models.TeamStatusValidated},
		{ID: 4, Name: "Rejects", Status: models.TeamStatusRejected},
		{ID: 5, Name: "Last Shot", Status: models.TeamStatusValidated},
	}
	seeds, err := NormalizeRoster(teams)
	if err != nil {
		t.Fatalf("NormalizeRoster returned error: %v", err)
	}
	if len(seeds) != 3 {
		t.Fatalf("expected 3 seeds, got %d", len(seeds))
	}
	if seeds[0].ID != 1 || seeds[1].ID != 3 || seeds[2].ID != 5 {
		t.Errorf("registration order not preserved: %v", seeds)
	}
	if seeds[1].Name != "Ghost Unit" {
		t.Errorf("name not trimmed: %q", seeds[1].Name)
	}
}

func TestNormalizeRosterRejectsDuplicates(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Night Raid", Status: models.TeamStatusValidated},
		{ID: 2, Name: "night raid", Status: models.TeamStatusValidated},
	}
	if _, err := NormalizeRoster(teams); !errors.Is(err, ErrDuplicateTeam) {
		t.Errorf("expected ErrDuplicateTeam, got %v", err)
	}
}

func TestNormalizeRosterNeedsTwoValidatedTeams(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Night Raid", Status: models.TeamStatusValidated},
		{ID: 2, Name: "Pending Crew", Status: models.TeamStatusPending},
	}
	if _, err := NormalizeRoster(teams); !errors.Is(err, ErrInsufficientParticipants) {
		t.Errorf("expected ErrInsufficientParticipants, got %v", err)
	}
}
