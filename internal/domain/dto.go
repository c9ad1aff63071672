package domain

// CheckRegistrationRequest asks whether an account exists for an email
type CheckRegistrationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CheckRegistrationResponse reports account existence and confirmation state
type CheckRegistrationResponse struct {
	Exists    bool `json:"exists"`
	Confirmed bool `json:"confirmed"`
}

// RegisterRequest creates an account, profile and default company settings
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// LoginRequest exchanges credentials for a session token
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries an issued session token and its subject
type SessionResponse struct {
	Token   string     `json:"token"`
	Profile ProfileDTO `json:"profile"`
}

// ProfileDTO is the wire form of a Profile
type ProfileDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CompanySettingsDTO is the wire form of CompanySettings
type CompanySettingsDTO struct {
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
	VATNumber   string `json:"vatNumber,omitempty"`
	Website     string `json:"website,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Disclaimer  string `json:"disclaimer"`
	Logo        string `json:"logo,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// UpdateCompanySettingsRequest replaces the user's company settings
type UpdateCompanySettingsRequest struct {
	CompanyName string `json:"companyName" validate:"max=200"`
	Address     string `json:"address" validate:"max=500"`
	VATNumber   string `json:"vatNumber" validate:"max=50"`
	Website     string `json:"website" validate:"omitempty,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"max=50"`
	Disclaimer  string `json:"disclaimer"`
	Logo        string `json:"logo"`
}

// GenerateProposalRequest carries the authoring state for one PDF
type GenerateProposalRequest struct {
	CustomerName string           `json:"customerName" validate:"max=200"`
	Comment      string           `json:"comment" validate:"max=2000"`
	FlightLegs   []FlightLeg      `json:"flightLegs" validate:"required,min=1,max=4"`
	Options      []AircraftOption `json:"options" validate:"required,min=1,max=5"`
}

// RecentSetupDTO is one entry of the recent-setups list
type RecentSetupDTO struct {
	ID            string      `json:"id"`
	DepartureCode string      `json:"departureCode,omitempty"`
	DepartureDate string      `json:"departureDate,omitempty"`
	CustomerName  string      `json:"customerName,omitempty"`
	FlightLegs    []FlightLeg `json:"flightLegs"`
	Comment       string      `json:"comment,omitempty"`
	CreatedAt     string      `json:"createdAt"`
}

// UploadResponse describes a stored image upload
type UploadResponse struct {
	Path        string `json:"path"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// AudienceRecord mirrors the auth provider's user record as delivered by
// the confirmed-email webhook.
type AudienceRecord struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
}

// AddToAudienceRequest is the webhook body
type AddToAudienceRequest struct {
	Record AudienceRecord `json:"record" validate:"required"`
}

// ErrorResponse is the legacy simple error body used by list endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
