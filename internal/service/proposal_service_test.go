package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/repository"
)

type stubRenderer struct {
	lastInput *domain.ProposalPDFInput
	err       error
}

func (r *stubRenderer) Render(ctx context.Context, input *domain.ProposalPDFInput) ([]byte, error) {
	r.lastInput = input
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

type stubMapBuilder struct{}

func (stubMapBuilder) BuildURL(legs []domain.FlightLeg) string {
	for _, leg := range legs {
		if leg.HasCoordinates() {
			return "https://maps.example.com/staticmap"
		}
	}
	return ""
}

func newProposalService(t *testing.T, renderer Renderer) (*ProposalService, *AccountService, *domain.User) {
	t.Helper()
	db := setupTestDB(t)
	accounts := newAccountService(t, db)

	user, err := accounts.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	settingsRepo := repository.NewCompanySettingsRepository(db)
	svc := NewProposalService(
		NewSettingsService(settingsRepo, zap.NewNop()),
		renderer,
		stubMapBuilder{},
		repository.NewUserStatsRepository(db),
		repository.NewRecentSetupRepository(db),
		zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) }
	return svc, accounts, user
}

func validRequest() *domain.GenerateProposalRequest {
	return &domain.GenerateProposalRequest{
		CustomerName: "Astrid Berge",
		Comment:      "Return trip, flexible times.",
		FlightLegs: []domain.FlightLeg{
			{
				DepartureCode: "ENGM", ArrivalCode: "EGGW",
				DepartureName: "Oslo Gardermoen", ArrivalName: "London Luton",
				DepartureLat: "60.1939", DepartureLng: "11.1004",
				ArrivalLat: "51.8747", ArrivalLng: "-0.3683",
				DepartureDate: "2026-09-14", DepartureTime: "09:30", Passengers: "6",
			},
			{DepartureCode: "EGGW", ArrivalCode: "ENGM"},
		},
		Options: []domain.AircraftOption{
			{
				ModelName: "Citation XLS+",
				Details: &domain.AircraftDetails{
					ModelName:       "Citation XLS+",
					CabinWidth:      "1.68 m",
					PassengerCap:    "9",
					DefaultImageInt: "https://img.example.com/xls-int.jpg",
					DefaultImageExt: "https://img.example.com/xls-ext.jpg",
				},
				ImageExterior: "data:image/png;base64,dXNlcg==",
				Price:         "EUR 18,500",
			},
			{}, // slot 2 left empty
			{ModelName: "Challenger 350", Passengers: "10"},
		},
	}
}

func TestGenerate(t *testing.T) {
	renderer := &stubRenderer{}
	svc, _, user := newProposalService(t, renderer)
	ctx := context.Background()

	pdf, err := svc.Generate(ctx, user.ID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)

	t.Run("stats are incremented", func(t *testing.T) {
		_, err := svc.Generate(ctx, user.ID, validRequest())
		require.NoError(t, err)

		setups, err := svc.ListRecentSetups(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, setups, 2)
	})

	t.Run("recent setup records the first leg", func(t *testing.T) {
		setups, err := svc.ListRecentSetups(ctx, user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, setups)
		assert.Equal(t, "ENGM", setups[0].DepartureCode)
		assert.Equal(t, "2026-09-14", setups[0].DepartureDate)
		assert.Equal(t, "Astrid Berge", setups[0].CustomerName)
		assert.Contains(t, setups[0].Legs, `"arrivalCode":"EGGW"`)
	})
}

func TestGenerateRejectsInvalidForm(t *testing.T) {
	svc, _, user := newProposalService(t, &stubRenderer{})
	ctx := context.Background()

	t.Run("no legs", func(t *testing.T) {
		req := validRequest()
		req.FlightLegs = nil
		_, err := svc.Generate(ctx, user.ID, req)
		assert.ErrorIs(t, err, ErrInvalidProposal)
	})

	t.Run("first leg missing an airport", func(t *testing.T) {
		req := validRequest()
		req.FlightLegs[0].ArrivalCode = ""
		_, err := svc.Generate(ctx, user.ID, req)
		assert.ErrorIs(t, err, ErrInvalidProposal)
	})

	t.Run("first option missing a model", func(t *testing.T) {
		req := validRequest()
		req.Options[0].ModelName = ""
		_, err := svc.Generate(ctx, user.ID, req)
		assert.ErrorIs(t, err, ErrInvalidProposal)
	})
}

func TestGenerateRendererFailureDoesNotRecord(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("render failed")}
	svc, _, user := newProposalService(t, renderer)
	ctx := context.Background()

	_, err := svc.Generate(ctx, user.ID, validRequest())
	require.Error(t, err)

	setups, err := svc.ListRecentSetups(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, setups, "a failed render must not enter the recent list")
}

func TestAssemble(t *testing.T) {
	renderer := &stubRenderer{}
	svc, _, _ := newProposalService(t, renderer)

	req := validRequest()
	form := &domain.ProposalForm{
		CustomerName: req.CustomerName,
		Comment:      req.Comment,
		FlightLegs:   req.FlightLegs,
		Options:      req.Options,
	}
	settings := &domain.CompanySettings{
		CompanyName: "VeloceJet AS",
		Disclaimer:  "Custom disclaimer.",
	}

	input := svc.Assemble(form, settings)

	t.Run("route names the first leg", func(t *testing.T) {
		assert.Equal(t, "Oslo Gardermoen to London Luton", input.Route)
	})

	t.Run("itinerary resolves fallbacks", func(t *testing.T) {
		require.Len(t, input.Itinerary, 2)
		first := input.Itinerary[0]
		assert.Equal(t, "Oslo Gardermoen (ENGM)", first.From)
		assert.Equal(t, "14 September, 2026", first.Date)
		assert.Equal(t, "09:30", first.Time)

		second := input.Itinerary[1]
		assert.Equal(t, "EGGW", second.From)
		assert.Equal(t, "N/A", second.Date)
		assert.Equal(t, "N/A", second.Time)
		assert.Equal(t, "N/A", second.Passengers)
	})

	t.Run("cards keep original slot numbers", func(t *testing.T) {
		require.Len(t, input.Options, 2)
		assert.Equal(t, 1, input.Options[0].CardNumber)
		assert.Equal(t, 3, input.Options[1].CardNumber, "empty slot 2 must not renumber slot 3")
	})

	t.Run("user image wins over the catalog default", func(t *testing.T) {
		card := input.Options[0]
		assert.Equal(t, "data:image/png;base64,dXNlcg==", card.Exterior.Source)
		assert.False(t, card.Exterior.IsDefault)
		assert.Equal(t, "https://img.example.com/xls-int.jpg", card.Interior.Source)
		assert.True(t, card.Interior.IsDefault)
	})

	t.Run("catalog details fill the card", func(t *testing.T) {
		card := input.Options[0]
		assert.Equal(t, "1.68 m", card.CabinWidth)
		assert.Equal(t, "9", card.Passengers)
	})

	t.Run("option without details has no images", func(t *testing.T) {
		card := input.Options[1]
		assert.Empty(t, card.Interior.Source)
		assert.Empty(t, card.Exterior.Source)
		assert.Equal(t, "10", card.Passengers)
	})

	t.Run("company block carries the settings", func(t *testing.T) {
		assert.Equal(t, "VeloceJet AS", input.Company.Name)
		assert.Equal(t, "Custom disclaimer.", input.Company.Disclaimer)
	})

	t.Run("generated date uses the document format", func(t *testing.T) {
		assert.Equal(t, "27 August, 2026", input.GeneratedAt)
	})

	t.Run("map URL comes from the builder", func(t *testing.T) {
		assert.Equal(t, "https://maps.example.com/staticmap", input.MapURL)
	})

	t.Run("empty disclaimer falls back to the default", func(t *testing.T) {
		input := svc.Assemble(form, &domain.CompanySettings{CompanyName: "VeloceJet AS"})
		assert.Equal(t, domain.DefaultDisclaimer, input.Company.Disclaimer)
	})
}

func TestFormatLegDate(t *testing.T) {
	assert.Equal(t, "14 September, 2026", formatLegDate("2026-09-14"))
	assert.Equal(t, "", formatLegDate(""))
	assert.Equal(t, "sometime next week", formatLegDate("sometime next week"), "unparseable dates pass through")
}
