package pdf

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
)

// onePixelPNG is a 1x1 transparent PNG, base64-encoded
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const onePixelDataURI = "data:image/png;base64," + onePixelPNG

type failingFetcher struct{}

func (failingFetcher) Fetch(ctx context.Context, source string) ([]byte, string, error) {
	return nil, "", errors.New("unreachable")
}

func testInput() *domain.ProposalPDFInput {
	return &domain.ProposalPDFInput{
		CustomerName: "Astrid Berge",
		Comment:      "Catering preferences to be confirmed.",
		Route:        "Oslo to London",
		Itinerary: []domain.ItineraryRow{
			{From: "Oslo Gardermoen (ENGM)", To: "London Luton (EGGW)", Date: "14 September, 2026", Time: "09:30", Passengers: "6"},
			{From: "London Luton (EGGW)", To: "Oslo Gardermoen (ENGM)", Date: "N/A", Time: "N/A", Passengers: "N/A"},
		},
		MapURL: "https://maps.example.com/staticmap?size=640x320",
		Options: []domain.OptionCard{
			{
				CardNumber:      1,
				ModelName:       "Citation XLS+",
				Price:           "EUR 18,500",
				Passengers:      "9",
				YearManufacture: "2016",
				Interior:        domain.ResolvedImage{Source: onePixelDataURI, IsDefault: true},
				Exterior:        domain.ResolvedImage{Source: onePixelDataURI},
			},
			{
				CardNumber: 3,
				ModelName:  "Challenger 350",
			},
		},
		Company: domain.PDFCompany{
			Name:       "VeloceJet AS",
			Address:    "Oksenoyveien 10, Fornebu",
			Email:      "charter@velocejet.example",
			Disclaimer: domain.DefaultDisclaimer,
			Logo:       onePixelDataURI,
		},
		GeneratedAt: "27 August, 2026",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(NewHTTPFetcher(), zap.NewNop())

	// The map URL is unreachable in tests; the document must still render.
	out, err := r.Render(context.Background(), testInput())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, len(out), 1000)
}

func TestRenderSurvivesAllImagesFailing(t *testing.T) {
	r := NewRenderer(failingFetcher{}, zap.NewNop())

	out, err := r.Render(context.Background(), testInput())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderMinimalInput(t *testing.T) {
	r := NewRenderer(failingFetcher{}, zap.NewNop())

	out, err := r.Render(context.Background(), &domain.ProposalPDFInput{
		Itinerary: []domain.ItineraryRow{
			{From: "ENGM", To: "EGGW", Date: "N/A", Time: "N/A", Passengers: "N/A"},
		},
		Options:     []domain.OptionCard{{CardNumber: 1, ModelName: "Citation XLS+"}},
		GeneratedAt: "27 August, 2026",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestCardLinesOmitAbsentValues(t *testing.T) {
	lines := cardLines(domain.OptionCard{
		ModelName:  "Citation XLS+",
		Price:      "EUR 18,500",
		Passengers: "9",
	})
	assert.Equal(t, []string{"Price: EUR 18,500", "Passengers: 9"}, lines)

	assert.Empty(t, cardLines(domain.OptionCard{ModelName: "Citation XLS+"}))
}

func TestFooterLine(t *testing.T) {
	full := footerLine(domain.PDFCompany{
		Name:      "VeloceJet AS",
		Address:   "Fornebu",
		VATNumber: "NO 999 888 777",
		Email:     "charter@velocejet.example",
		Phone:     "+47 67 00 00 00",
	})
	assert.Equal(t, "VeloceJet AS | Fornebu | NO 999 888 777 | charter@velocejet.example | +47 67 00 00 00", full)

	sparse := footerLine(domain.PDFCompany{Name: "VeloceJet AS", Email: "charter@velocejet.example"})
	assert.Equal(t, "VeloceJet AS | charter@velocejet.example", sparse)

	assert.Empty(t, footerLine(domain.PDFCompany{}))
}

func TestFooterMeta(t *testing.T) {
	assert.Equal(t, "Generated 14 September, 2026 - Page 2", footerMeta("14 September, 2026", 2))
	assert.Equal(t, "Page 1", footerMeta("", 1))
}

func TestDecodeDataURI(t *testing.T) {
	data, imageType, err := decodeDataURI(onePixelDataURI)
	require.NoError(t, err)
	assert.Equal(t, "PNG", imageType)
	assert.NotEmpty(t, data)

	_, _, err = decodeDataURI("data:image/png;base64")
	assert.Error(t, err)

	_, _, err = decodeDataURI("data:image/png,not-base64-flagged")
	assert.Error(t, err)

	_, _, err = decodeDataURI("data:image/png;base64,!!!!")
	assert.Error(t, err)
}

func TestImageTypeFor(t *testing.T) {
	pngBytes, _, err := decodeDataURI(onePixelDataURI)
	require.NoError(t, err)

	imageType, err := imageTypeFor("image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "PNG", imageType)

	imageType, err = imageTypeFor("image/jpeg", nil)
	require.NoError(t, err)
	assert.Equal(t, "JPG", imageType)

	// Unknown media type falls back to sniffing the payload.
	imageType, err = imageTypeFor("application/octet-stream", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "PNG", imageType)

	_, err = imageTypeFor("image/gif", []byte("GIF89a"))
	assert.Error(t, err)
}
