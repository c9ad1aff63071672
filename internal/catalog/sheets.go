package catalog

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/velocejet/charter-api/internal/config"
)

// SheetsSource reads the catalog from a Google Sheets spreadsheet with
// three tabs: Aircraft, Airports and Jets.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	aircraftRange string
	airportsRange string
	jetsRange     string
}

// NewSheetsSource creates a Sheets-backed catalog source. A service account
// credentials file takes precedence over an API key; read-only scope is
// enough since the catalog is never written.
func NewSheetsSource(ctx context.Context, cfg config.CatalogConfig) (*SheetsSource, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("sheets source requires a credentials file or API key")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		aircraftRange: cfg.AircraftRange,
		airportsRange: cfg.AirportsRange,
		jetsRange:     cfg.JetsRange,
	}, nil
}

// Name identifies the source in logs and diagnostics
func (s *SheetsSource) Name() string {
	return "google-sheets"
}

// Fetch reads all three tabs in one batch request
func (s *SheetsSource) Fetch(ctx context.Context) (*Snapshot, error) {
	resp, err := s.service.Spreadsheets.Values.
		BatchGet(s.spreadsheetID).
		Ranges(s.aircraftRange, s.airportsRange, s.jetsRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", s.spreadsheetID, err)
	}
	if len(resp.ValueRanges) != 3 {
		return nil, fmt.Errorf("expected 3 value ranges, got %d", len(resp.ValueRanges))
	}

	snap := &Snapshot{}
	for _, row := range resp.ValueRanges[0].Values {
		if a, ok := parseAircraftRow(toStrings(row)); ok {
			snap.Aircraft = append(snap.Aircraft, a)
		}
	}
	for _, row := range resp.ValueRanges[1].Values {
		if a, ok := parseAirportRow(toStrings(row)); ok {
			snap.Airports = append(snap.Airports, a)
		}
	}
	for _, row := range resp.ValueRanges[2].Values {
		if j, ok := parseJetRow(toStrings(row)); ok {
			snap.Jets = append(snap.Jets, j)
		}
	}
	return snap, nil
}

func toStrings(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = fmt.Sprint(v)
	}
	return cells
}
