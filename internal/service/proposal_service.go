package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/repository"
)

// legDateLayout is the wire format of leg dates
const legDateLayout = "2006-01-02"

// pdfDateLayout is how dates appear in the document
const pdfDateLayout = "2 January, 2006"

// Renderer turns an assembled proposal into document bytes
type Renderer interface {
	Render(ctx context.Context, input *domain.ProposalPDFInput) ([]byte, error)
}

// MapBuilder produces the static map URL for a leg sequence
type MapBuilder interface {
	BuildURL(legs []domain.FlightLeg) string
}

// ProposalService assembles proposal form state into a render-ready input,
// renders the PDF and records the generation.
type ProposalService struct {
	settings   *SettingsService
	renderer   Renderer
	mapBuilder MapBuilder
	statsRepo  *repository.UserStatsRepository
	recentRepo *repository.RecentSetupRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewProposalService(
	settings *SettingsService,
	renderer Renderer,
	mapBuilder MapBuilder,
	statsRepo *repository.UserStatsRepository,
	recentRepo *repository.RecentSetupRepository,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		settings:   settings,
		renderer:   renderer,
		mapBuilder: mapBuilder,
		statsRepo:  statsRepo,
		recentRepo: recentRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate renders the proposal PDF for the submitted form state. The form
// must pass the minimum-data gate; bookkeeping failures after a successful
// render are logged but never surface to the caller.
func (s *ProposalService) Generate(ctx context.Context, userID uuid.UUID, req *domain.GenerateProposalRequest) ([]byte, error) {
	form := &domain.ProposalForm{
		CustomerName: req.CustomerName,
		Comment:      req.Comment,
		FlightLegs:   req.FlightLegs,
		Options:      req.Options,
	}
	if !form.HasValidData() {
		return nil, ErrInvalidProposal
	}

	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	input := s.Assemble(form, settings)
	pdfBytes, err := s.renderer.Render(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.statsRepo.IncrementProposalCount(ctx, userID); err != nil {
		s.logger.Error("failed to record proposal generation",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
	s.recordRecentSetup(ctx, userID, form)

	s.logger.Info("proposal generated",
		zap.String("user_id", userID.String()),
		zap.Int("legs", len(form.FlightLegs)),
		zap.Int("options", countPopulated(form.Options)),
		zap.Int("pdf_bytes", len(pdfBytes)),
	)
	return pdfBytes, nil
}

// Assemble flattens form state into the transient render input. It never
// touches storage: the same form always assembles to the same input.
func (s *ProposalService) Assemble(form *domain.ProposalForm, settings *domain.CompanySettings) *domain.ProposalPDFInput {
	input := &domain.ProposalPDFInput{
		CustomerName: form.CustomerName,
		Comment:      form.Comment,
		Route:        routeLabel(form.FlightLegs),
		Itinerary:    buildItinerary(form.FlightLegs),
		MapURL:       s.mapBuilder.BuildURL(form.FlightLegs),
		Options:      buildOptionCards(form.Options),
		Company:      companyBlock(settings),
		GeneratedAt:  formatLegDate(s.now().Format(legDateLayout)),
	}
	return input
}

// ListRecentSetups returns the user's recent generations, newest first
func (s *ProposalService) ListRecentSetups(ctx context.Context, userID uuid.UUID) ([]domain.RecentSetup, error) {
	return s.recentRepo.ListByUserID(ctx, userID)
}

// recordRecentSetup pushes the generated form onto the user's ring buffer
func (s *ProposalService) recordRecentSetup(ctx context.Context, userID uuid.UUID, form *domain.ProposalForm) {
	legsJSON, err := json.Marshal(form.FlightLegs)
	if err != nil {
		s.logger.Error("failed to encode legs for recent setup", zap.Error(err))
		return
	}

	first := form.FlightLegs[0]
	setup := &domain.RecentSetup{
		UserID:        userID,
		DepartureCode: first.DepartureCode,
		DepartureDate: first.DepartureDate,
		CustomerName:  form.CustomerName,
		Legs:          string(legsJSON),
		Comment:       form.Comment,
	}
	if err := s.recentRepo.Push(ctx, setup); err != nil {
		s.logger.Error("failed to record recent setup",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// routeLabel names the proposal after the first leg: "Oslo to London",
// falling back to airport codes when names are absent.
func routeLabel(legs []domain.FlightLeg) string {
	if len(legs) == 0 {
		return ""
	}
	first := legs[0]

	from := first.DepartureName
	if from == "" {
		from = first.DepartureCode
	}
	to := first.ArrivalName
	if to == "" {
		to = first.ArrivalCode
	}
	if from == "" || to == "" {
		return ""
	}
	return from + " to " + to
}

// buildItinerary resolves each leg into a display row. Missing values show
// as "N/A" rather than blank cells.
func buildItinerary(legs []domain.FlightLeg) []domain.ItineraryRow {
	rows := make([]domain.ItineraryRow, 0, len(legs))
	for _, leg := range legs {
		rows = append(rows, domain.ItineraryRow{
			From:       airportLabel(leg.DepartureName, leg.DepartureCode),
			To:         airportLabel(leg.ArrivalName, leg.ArrivalCode),
			Date:       orNA(formatLegDate(leg.DepartureDate)),
			Time:       orNA(leg.DepartureTime),
			Passengers: orNA(leg.Passengers),
		})
	}
	return rows
}

func airportLabel(name, code string) string {
	switch {
	case name != "" && code != "":
		return name + " (" + code + ")"
	case name != "":
		return name
	case code != "":
		return code
	}
	return "N/A"
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// formatLegDate renders a leg date for the document. Anything that does not
// parse as a wire date passes through untouched.
func formatLegDate(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(legDateLayout, raw)
	if err != nil {
		return raw
	}
	return parsed.Format(pdfDateLayout)
}

// buildOptionCards keeps the populated slots and numbers each card by its
// original slot position, so "Option 3" stays option 3 when slot 2 is empty.
func buildOptionCards(options []domain.AircraftOption) []domain.OptionCard {
	cards := make([]domain.OptionCard, 0, len(options))
	for i := range options {
		opt := &options[i]
		if !opt.IsPopulated() {
			continue
		}

		card := domain.OptionCard{
			CardNumber:      i + 1,
			ModelName:       opt.ModelName,
			Price:           opt.Price,
			Notes:           opt.Notes,
			YearManufacture: opt.YearManufacture,
			YearRefurbished: opt.YearRefurbished,
			Passengers:      opt.Passengers,
			Interior:        resolveImage(opt.ImageInterior, detailInterior(opt.Details)),
			Exterior:        resolveImage(opt.ImageExterior, detailExterior(opt.Details)),
		}
		if opt.Details != nil {
			card.CabinWidth = opt.Details.CabinWidth
			card.CabinHeight = opt.Details.CabinHeight
			card.BaggageVolume = opt.Details.BaggageVolume
			if card.Passengers == "" {
				card.Passengers = opt.Details.PassengerCap
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// resolveImage prefers the user's upload over the catalog default. Only the
// default carries the generic-photo caption.
func resolveImage(userImage, defaultImage string) domain.ResolvedImage {
	if userImage != "" {
		return domain.ResolvedImage{Source: userImage}
	}
	if defaultImage != "" {
		return domain.ResolvedImage{Source: defaultImage, IsDefault: true}
	}
	return domain.ResolvedImage{}
}

func detailInterior(d *domain.AircraftDetails) string {
	if d == nil {
		return ""
	}
	return d.DefaultImageInt
}

func detailExterior(d *domain.AircraftDetails) string {
	if d == nil {
		return ""
	}
	return d.DefaultImageExt
}

// companyBlock resolves the PDF branding from settings, falling back to the
// default disclaimer when the row carries none.
func companyBlock(settings *domain.CompanySettings) domain.PDFCompany {
	company := domain.PDFCompany{}
	if settings != nil {
		company = domain.PDFCompany{
			Name:       settings.CompanyName,
			Address:    settings.Address,
			VATNumber:  settings.VATNumber,
			Email:      settings.Email,
			Phone:      settings.PhoneNumber,
			Disclaimer: settings.Disclaimer,
			Logo:       settings.Logo,
		}
	}
	if company.Disclaimer == "" {
		company.Disclaimer = domain.DefaultDisclaimer
	}
	return company
}

func countPopulated(options []domain.AircraftOption) int {
	n := 0
	for i := range options {
		if options[i].IsPopulated() {
			n++
		}
	}
	return n
}
