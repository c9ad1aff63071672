package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocejet/charter-api/internal/domain"
)

func TestToRecentSetupDTO(t *testing.T) {
	setup := &domain.RecentSetup{
		BaseModel: domain.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC),
		},
		UserID:        uuid.New(),
		DepartureCode: "ENGM",
		DepartureDate: "2026-09-14",
		CustomerName:  "Astrid Berge",
		Legs:          `[{"departureCode":"ENGM","arrivalCode":"EGGW"},{"departureCode":"EGGW","arrivalCode":"ENGM"}]`,
	}

	dto := ToRecentSetupDTO(setup)
	assert.Equal(t, setup.ID.String(), dto.ID)
	assert.Equal(t, "2026-08-27T10:30:00Z", dto.CreatedAt)
	require.Len(t, dto.FlightLegs, 2)
	assert.Equal(t, "EGGW", dto.FlightLegs[0].ArrivalCode)
}

func TestToRecentSetupDTOCorruptLegs(t *testing.T) {
	dto := ToRecentSetupDTO(&domain.RecentSetup{Legs: "{not json"})
	assert.NotNil(t, dto.FlightLegs)
	assert.Empty(t, dto.FlightLegs)

	dto = ToRecentSetupDTO(&domain.RecentSetup{})
	assert.NotNil(t, dto.FlightLegs)
}

func TestToProfileDTO(t *testing.T) {
	id := uuid.New()
	profile := &domain.Profile{
		ID:        id,
		Email:     "broker@velocejet.example",
		FirstName: "Astrid",
		LastName:  "Berge",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	dto := ToProfileDTO(profile)
	assert.Equal(t, id.String(), dto.ID)
	assert.Equal(t, "2026-01-02T03:04:05Z", dto.CreatedAt)
	assert.Equal(t, "Astrid", dto.FirstName)
}
