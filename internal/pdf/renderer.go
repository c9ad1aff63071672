// Package pdf renders assembled proposals into the final document. The
// renderer only formats: all data resolution (fallbacks, card numbering,
// image selection) happens upstream in the proposal service.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
)

const (
	pageMargin   = 15.0
	contentWidth = 180.0 // A4 portrait minus margins
)

// Renderer produces proposal PDFs with fpdf
type Renderer struct {
	fetcher ImageFetcher
	logger  *zap.Logger
}

// NewRenderer creates a renderer. Image fetch failures never fail the
// document; the affected image is left out.
func NewRenderer(fetcher ImageFetcher, logger *zap.Logger) *Renderer {
	return &Renderer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Render produces the PDF bytes for an assembled proposal
func (r *Renderer) Render(ctx context.Context, input *domain.ProposalPDFInput) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, 25)
	doc.SetTitle("Charter Proposal", true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	r.setFooter(doc, tr, input)
	doc.AddPage()

	r.drawHeader(ctx, doc, tr, input)
	r.drawItinerary(doc, tr, input.Itinerary)
	r.drawComment(doc, tr, input.Comment)
	r.drawMap(ctx, doc, input.MapURL)
	r.drawOptions(ctx, doc, tr, input.Options)
	r.drawDisclaimer(doc, tr, input.Company.Disclaimer)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(ctx context.Context, doc *fpdf.Fpdf, tr func(string) string, input *domain.ProposalPDFInput) {
	if input.Company.Logo != "" {
		if name, ok := r.registerImage(ctx, doc, "company-logo", input.Company.Logo); ok {
			doc.ImageOptions(name, pageMargin, pageMargin, 0, 14, false, fpdf.ImageOptions{}, 0, "")
		}
	}
	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(contentWidth, 14, tr(input.Company.Name), "", 1, "RM", false, 0, "")

	doc.Ln(4)
	doc.SetDrawColor(212, 160, 23)
	doc.SetLineWidth(0.6)
	doc.Line(pageMargin, doc.GetY(), pageMargin+contentWidth, doc.GetY())
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 22)
	doc.SetTextColor(29, 44, 77)
	doc.CellFormat(contentWidth, 10, "Charter Proposal", "", 1, "LM", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(90, 90, 90)
	if input.CustomerName != "" {
		doc.CellFormat(contentWidth, 6, tr("Prepared for "+input.CustomerName), "", 1, "LM", false, 0, "")
	}
	if input.Route != "" {
		doc.CellFormat(contentWidth, 6, tr(input.Route), "", 1, "LM", false, 0, "")
	}
	doc.Ln(4)
}

var itineraryColumns = []struct {
	title string
	width float64
}{
	{"From", 50},
	{"To", 50},
	{"Date", 38},
	{"Departure", 22},
	{"Pax", 20},
}

func (r *Renderer) drawItinerary(doc *fpdf.Fpdf, tr func(string) string, rows []domain.ItineraryRow) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(29, 44, 77)
	doc.SetTextColor(255, 255, 255)
	for _, col := range itineraryColumns {
		doc.CellFormat(col.width, 8, col.title, "", 0, "LM", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(40, 40, 40)
	for i, row := range rows {
		fill := i%2 == 1
		doc.SetFillColor(242, 244, 248)
		cells := []string{row.From, row.To, row.Date, row.Time, row.Passengers}
		for c, col := range itineraryColumns {
			doc.CellFormat(col.width, 7, tr(cells[c]), "", 0, "LM", fill, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(4)
}

func (r *Renderer) drawComment(doc *fpdf.Fpdf, tr func(string) string, comment string) {
	if comment == "" {
		return
	}
	doc.SetFont("Helvetica", "I", 10)
	doc.SetTextColor(80, 80, 80)
	doc.MultiCell(contentWidth, 5, tr(comment), "", "L", false)
	doc.Ln(4)
}

func (r *Renderer) drawMap(ctx context.Context, doc *fpdf.Fpdf, mapURL string) {
	if mapURL == "" {
		return
	}
	name, ok := r.registerImage(ctx, doc, "route-map", mapURL)
	if !ok {
		return
	}
	// The static map is requested at a 2:1 aspect ratio.
	doc.ImageOptions(name, pageMargin, doc.GetY(), contentWidth, contentWidth/2, true, fpdf.ImageOptions{}, 0, "")
	doc.Ln(4)
}

func (r *Renderer) drawOptions(ctx context.Context, doc *fpdf.Fpdf, tr func(string) string, options []domain.OptionCard) {
	for _, card := range options {
		// Keep each card on one page.
		if doc.GetY() > 180 {
			doc.AddPage()
		}

		doc.SetFont("Helvetica", "B", 10)
		doc.SetTextColor(212, 160, 23)
		doc.CellFormat(contentWidth, 6, fmt.Sprintf("OPTION %d", card.CardNumber), "", 1, "LM", false, 0, "")

		doc.SetFont("Helvetica", "B", 14)
		doc.SetTextColor(29, 44, 77)
		doc.CellFormat(contentWidth, 8, tr(card.ModelName), "", 1, "LM", false, 0, "")

		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(40, 40, 40)
		for _, line := range cardLines(card) {
			doc.CellFormat(contentWidth, 5, tr(line), "", 1, "LM", false, 0, "")
		}
		doc.Ln(2)

		r.drawCardImages(ctx, doc, card)
		doc.Ln(6)
	}
}

// cardLines builds the detail lines for one option card. Absent values are
// omitted rather than shown as blanks.
func cardLines(card domain.OptionCard) []string {
	line := func(label, value string) (string, bool) {
		if value == "" {
			return "", false
		}
		return label + ": " + value, true
	}

	var lines []string
	for _, candidate := range []struct {
		label string
		value string
	}{
		{"Price", card.Price},
		{"Passengers", card.Passengers},
		{"Cabin width", card.CabinWidth},
		{"Cabin height", card.CabinHeight},
		{"Baggage volume", card.BaggageVolume},
		{"Year of manufacture", card.YearManufacture},
		{"Refurbished", card.YearRefurbished},
		{"Notes", card.Notes},
	} {
		if l, ok := line(candidate.label, candidate.value); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

func (r *Renderer) drawCardImages(ctx context.Context, doc *fpdf.Fpdf, card domain.OptionCard) {
	const imgWidth = 87.0
	const imgHeight = 50.0

	slots := []struct {
		caption string
		image   domain.ResolvedImage
		x       float64
	}{
		{"Interior", card.Interior, pageMargin},
		{"Exterior", card.Exterior, pageMargin + imgWidth + 6},
	}

	top := doc.GetY()
	drawn := false
	for i, slot := range slots {
		if slot.image.Source == "" {
			continue
		}
		name, ok := r.registerImage(ctx, doc, fmt.Sprintf("option-%d-%d", card.CardNumber, i), slot.image.Source)
		if !ok {
			continue
		}
		doc.ImageOptions(name, slot.x, top, imgWidth, imgHeight, false, fpdf.ImageOptions{}, 0, "")

		caption := slot.caption
		if slot.image.IsDefault {
			caption += " (generic model photo)"
		}
		doc.SetFont("Helvetica", "I", 7)
		doc.SetTextColor(120, 120, 120)
		doc.SetXY(slot.x, top+imgHeight+1)
		doc.CellFormat(imgWidth, 4, caption, "", 0, "LM", false, 0, "")
		drawn = true
	}
	if drawn {
		doc.SetY(top + imgHeight + 6)
	}
}

func (r *Renderer) drawDisclaimer(doc *fpdf.Fpdf, tr func(string) string, disclaimer string) {
	if disclaimer == "" {
		return
	}
	doc.Ln(4)
	doc.SetFont("Helvetica", "", 7)
	doc.SetTextColor(130, 130, 130)
	doc.MultiCell(contentWidth, 3.5, tr(disclaimer), "", "L", false)
}

// setFooter installs the per-page footer: the company contact line with
// blank parts dropped, then the generation date and page number.
func (r *Renderer) setFooter(doc *fpdf.Fpdf, tr func(string) string, input *domain.ProposalPDFInput) {
	contact := footerLine(input.Company)
	doc.SetFooterFunc(func() {
		doc.SetY(-18)
		doc.SetDrawColor(200, 200, 200)
		doc.SetLineWidth(0.2)
		doc.Line(pageMargin, doc.GetY(), pageMargin+contentWidth, doc.GetY())

		doc.SetFont("Helvetica", "", 7)
		doc.SetTextColor(130, 130, 130)
		doc.CellFormat(contentWidth, 6, tr(contact), "", 1, "CM", false, 0, "")
		doc.CellFormat(contentWidth, 4, tr(footerMeta(input.GeneratedAt, doc.PageNo())), "", 0, "CM", false, 0, "")
	})
}

// footerMeta is the second footer row: generation date and page number
func footerMeta(generatedAt string, page int) string {
	if generatedAt == "" {
		return fmt.Sprintf("Page %d", page)
	}
	return fmt.Sprintf("Generated %s - Page %d", generatedAt, page)
}

// footerLine joins the populated company fields with pipes
func footerLine(company domain.PDFCompany) string {
	parts := []string{}
	for _, p := range []string{company.Name, company.Address, company.VATNumber, company.Email, company.Phone} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}

// registerImage fetches and registers an image with the document. A failed
// fetch is logged and reported as not-ok; the document renders without it.
func (r *Renderer) registerImage(ctx context.Context, doc *fpdf.Fpdf, name, source string) (string, bool) {
	data, imageType, err := r.fetcher.Fetch(ctx, source)
	if err != nil {
		r.logger.Warn("skipping unrenderable image",
			zap.String("image", name),
			zap.Error(err),
		)
		return "", false
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	info := doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if doc.Err() || info == nil {
		r.logger.Warn("skipping undecodable image", zap.String("image", name))
		doc.ClearError()
		return "", false
	}
	return name, true
}
