package mapper

import (
	"encoding/json"

	"github.com/velocejet/charter-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// ToProfileDTO converts Profile to ProfileDTO
func ToProfileDTO(profile *domain.Profile) domain.ProfileDTO {
	return domain.ProfileDTO{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		CreatedAt: profile.CreatedAt.Format(timestampLayout),
		UpdatedAt: profile.UpdatedAt.Format(timestampLayout),
	}
}

// ToCompanySettingsDTO converts CompanySettings to CompanySettingsDTO
func ToCompanySettingsDTO(settings *domain.CompanySettings) domain.CompanySettingsDTO {
	return domain.CompanySettingsDTO{
		CompanyName: settings.CompanyName,
		Address:     settings.Address,
		VATNumber:   settings.VATNumber,
		Website:     settings.Website,
		Email:       settings.Email,
		PhoneNumber: settings.PhoneNumber,
		Disclaimer:  settings.Disclaimer,
		Logo:        settings.Logo,
		UpdatedAt:   settings.UpdatedAt.Format(timestampLayout),
	}
}

// ToRecentSetupDTO converts RecentSetup to RecentSetupDTO, decoding the
// stored leg sequence. Undecodable legs yield an empty slice, not an error;
// a corrupt row should not break the whole list.
func ToRecentSetupDTO(setup *domain.RecentSetup) domain.RecentSetupDTO {
	legs := []domain.FlightLeg{}
	if setup.Legs != "" {
		if err := json.Unmarshal([]byte(setup.Legs), &legs); err != nil {
			legs = []domain.FlightLeg{}
		}
	}

	return domain.RecentSetupDTO{
		ID:            setup.ID.String(),
		DepartureCode: setup.DepartureCode,
		DepartureDate: setup.DepartureDate,
		CustomerName:  setup.CustomerName,
		FlightLegs:    legs,
		Comment:       setup.Comment,
		CreatedAt:     setup.CreatedAt.Format(timestampLayout),
	}
}

// ToRecentSetupDTOs converts a list of setups
func ToRecentSetupDTOs(setups []domain.RecentSetup) []domain.RecentSetupDTO {
	dtos := make([]domain.RecentSetupDTO, len(setups))
	for i := range setups {
		dtos[i] = ToRecentSetupDTO(&setups[i])
	}
	return dtos
}
