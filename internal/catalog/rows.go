package catalog

import "strings"

// Row parsing is shared by the Sheets and XLSX sources. Both deliver rows
// as string cells in a fixed column order; trailing empty cells may be
// missing entirely, so every column read goes through cell().

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseAircraftRow maps columns A-H of the Aircraft tab. Rows without a
// model name are skipped.
func parseAircraftRow(row []string) (Aircraft, bool) {
	a := Aircraft{
		ModelName:       cell(row, 0),
		CabinWidth:      cell(row, 1),
		CabinHeight:     cell(row, 2),
		BaggageVolume:   cell(row, 3),
		PassengerCap:    cell(row, 4),
		DefaultInterior: cell(row, 5),
		DefaultExterior: cell(row, 6),
		RangeNM:         cell(row, 7),
	}
	return a, a.ModelName != ""
}

// parseAirportRow maps columns A-F of the Airports tab. Rows without an
// ICAO code are skipped.
func parseAirportRow(row []string) (Airport, bool) {
	a := Airport{
		ICAO:    strings.ToUpper(cell(row, 0)),
		IATA:    strings.ToUpper(cell(row, 1)),
		Name:    cell(row, 2),
		Country: cell(row, 3),
		Lat:     cell(row, 4),
		Lng:     cell(row, 5),
	}
	return a, a.ICAO != ""
}

// parseJetRow maps columns A-E of the Jets tab. Rows without a registration
// are skipped.
func parseJetRow(row []string) (Jet, bool) {
	j := Jet{
		Registration: strings.ToUpper(cell(row, 0)),
		ModelName:    cell(row, 1),
		SerialNumber: cell(row, 2),
		Year:         cell(row, 3),
		BaseICAO:     strings.ToUpper(cell(row, 4)),
	}
	return j, j.Registration != ""
}
