package domain

// Proposal authoring limits. The form allows between one and four legs and
// between one and five aircraft options; slot one is always present.
const (
	MaxFlightLegs      = 4
	MaxAircraftOptions = 5
)

// FlightLeg is one point-to-point segment of the itinerary. Order is
// significant: it defines the route and the map path.
type FlightLeg struct {
	ID            string `json:"id"`
	DepartureCode string `json:"departureCode"`
	ArrivalCode   string `json:"arrivalCode"`
	DepartureName string `json:"departureName,omitempty"`
	ArrivalName   string `json:"arrivalName,omitempty"`
	DepartureLat  string `json:"departureLat,omitempty"`
	DepartureLng  string `json:"departureLng,omitempty"`
	ArrivalLat    string `json:"arrivalLat,omitempty"`
	ArrivalLng    string `json:"arrivalLng,omitempty"`
	DepartureDate string `json:"departureDate,omitempty"` // "2006-01-02"
	DepartureTime string `json:"departureTime,omitempty"` // free text "hh:mm"
	Passengers    string `json:"passengers,omitempty"`
}

// HasCoordinates reports whether both endpoints of the leg resolved to
// coordinates. Legs without coordinates contribute nothing to the map.
func (l *FlightLeg) HasCoordinates() bool {
	return l.DepartureLat != "" && l.DepartureLng != "" && l.ArrivalLat != "" && l.ArrivalLng != ""
}

// AircraftDetails is the catalog record behind an option, resolved when the
// user picks a suggestion or left nil for a manually typed model.
type AircraftDetails struct {
	ModelName       string `json:"modelName"`
	CabinWidth      string `json:"cabinWidth,omitempty"`
	CabinHeight     string `json:"cabinHeight,omitempty"`
	BaggageVolume   string `json:"baggageVolume,omitempty"`
	PassengerCap    string `json:"passengerCapacity,omitempty"`
	DefaultImageInt string `json:"defaultImageInterior,omitempty"`
	DefaultImageExt string `json:"defaultImageExterior,omitempty"`
}

// AircraftOption is one candidate aircraft offered within a proposal.
// Image fields hold user uploads as data URIs; catalog defaults come from
// Details during assembly.
type AircraftOption struct {
	ID              string           `json:"id"`
	ModelName       string           `json:"modelName"`
	Details         *AircraftDetails `json:"details,omitempty"`
	ImageInterior   string           `json:"imageInterior,omitempty"`
	ImageExterior   string           `json:"imageExterior,omitempty"`
	YearManufacture string           `json:"yearOfManufacture,omitempty"`
	YearRefurbished string           `json:"yearRefurbished,omitempty"`
	Price           string           `json:"price,omitempty"`
	Passengers      string           `json:"passengers,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// IsPopulated reports whether the option slot takes part in rendering.
func (o *AircraftOption) IsPopulated() bool {
	return o.ModelName != ""
}

// ProposalForm is the authoring state submitted for PDF generation.
type ProposalForm struct {
	CustomerName string           `json:"customerName,omitempty"`
	Comment      string           `json:"comment,omitempty"`
	FlightLegs   []FlightLeg      `json:"flightLegs"`
	Options      []AircraftOption `json:"options"`
}

// HasValidData is the minimum-data gate for generation: the first leg must
// have both airports and the first option must carry a model name.
func (f *ProposalForm) HasValidData() bool {
	if len(f.FlightLegs) == 0 || len(f.Options) == 0 {
		return false
	}
	first := f.FlightLegs[0]
	if first.DepartureCode == "" || first.ArrivalCode == "" {
		return false
	}
	return f.Options[0].ModelName != ""
}

// ResolvedImage is one image slot after assembly: source plus the flag
// telling the renderer to caption it as a generic model photo.
type ResolvedImage struct {
	Source    string // data URI or URL; empty means the slot renders empty
	IsDefault bool
}

// ItineraryRow is one line of the PDF itinerary table, already fallback-resolved.
type ItineraryRow struct {
	From       string
	To         string
	Date       string
	Time       string
	Passengers string
}

// OptionCard is one aircraft card of the PDF. CardNumber is the original
// slot index + 1: slots left empty do not renumber the populated ones.
type OptionCard struct {
	CardNumber      int
	ModelName       string
	Price           string
	Notes           string
	YearManufacture string
	YearRefurbished string
	Passengers      string
	CabinHeight     string
	CabinWidth      string
	BaggageVolume   string
	Interior        ResolvedImage
	Exterior        ResolvedImage
}

// PDFCompany is the branding block resolved from CompanySettings, or the
// defaults when the user has none.
type PDFCompany struct {
	Name       string
	Address    string
	VATNumber  string
	Email      string
	Phone      string
	Disclaimer string
	Logo       string // data URI
}

// ProposalPDFInput is the flattened, transient view handed to the renderer.
// It is rebuilt from ProposalForm on every request and never persisted.
type ProposalPDFInput struct {
	CustomerName string
	Comment      string
	Route        string // e.g. "Geneva to Nice"
	Itinerary    []ItineraryRow
	MapURL       string
	Options      []OptionCard
	Company      PDFCompany
	GeneratedAt  string // formatted like leg dates
}
