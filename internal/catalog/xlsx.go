package catalog

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// FileSource reads the catalog from a local .xlsx workbook laid out like
// the live spreadsheet. It backs local development and the test suite.
type FileSource struct {
	path string
}

// NewFileSource creates an XLSX-backed catalog source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source in logs and diagnostics
func (s *FileSource) Name() string {
	return "xlsx-file"
}

// Fetch reads all three tabs from the workbook. Header rows are skipped.
func (s *FileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	snap := &Snapshot{}

	rows, err := f.GetRows("Aircraft")
	if err != nil {
		return nil, fmt.Errorf("failed to read Aircraft sheet: %w", err)
	}
	for _, row := range skipHeader(rows) {
		if a, ok := parseAircraftRow(row); ok {
			snap.Aircraft = append(snap.Aircraft, a)
		}
	}

	rows, err = f.GetRows("Airports")
	if err != nil {
		return nil, fmt.Errorf("failed to read Airports sheet: %w", err)
	}
	for _, row := range skipHeader(rows) {
		if a, ok := parseAirportRow(row); ok {
			snap.Airports = append(snap.Airports, a)
		}
	}

	rows, err = f.GetRows("Jets")
	if err != nil {
		return nil, fmt.Errorf("failed to read Jets sheet: %w", err)
	}
	for _, row := range skipHeader(rows) {
		if j, ok := parseJetRow(row); ok {
			snap.Jets = append(snap.Jets, j)
		}
	}

	return snap, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}
