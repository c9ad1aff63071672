package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller didn't. IDs are generated
// application-side so the same models work against PostgreSQL in production
// and SQLite in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DefaultDisclaimer is the boilerplate used until a company supplies its own.
const DefaultDisclaimer = "This proposal is indicative only and subject to aircraft availability, " +
	"owner approval and final contract. Prices exclude de-icing, catering upgrades and any " +
	"applicable taxes unless stated otherwise. Schedules may change due to weather, slot " +
	"restrictions or operational requirements."

// User is the authentication record: credentials plus confirmation state.
// The profile and company settings hang off the same ID.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	ConfirmedAt  *time.Time `gorm:"column:confirmed_at"`
}

// IsConfirmed reports whether the user's email address has been confirmed.
func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

// Profile holds the human-facing account data
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName string    `gorm:"type:varchar(100);column:first_name"`
	LastName  string    `gorm:"type:varchar(100);column:last_name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// FullName returns the profile's full name
func (p *Profile) FullName() string {
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.LastName
}

// CompanySettings brands the generated proposal: footer contact line,
// disclaimer text and header logo. One row per user, created on registration.
type CompanySettings struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	User        *User     `gorm:"foreignKey:UserID"`
	CompanyName string    `gorm:"type:varchar(200);column:company_name"`
	Address     string    `gorm:"type:varchar(500)"`
	VATNumber   string    `gorm:"type:varchar(50);column:vat_number"`
	Website     string    `gorm:"type:varchar(255)"`
	Email       string    `gorm:"type:varchar(255)"`
	PhoneNumber string    `gorm:"type:varchar(50);column:phone_number"`
	Disclaimer  string    `gorm:"type:text"`
	Logo        string    `gorm:"type:text"` // data URI, optional
}

// UserStats tracks proposal generation per user
type UserStats struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primary_key;column:user_id"`
	ProposalCount   int        `gorm:"not null;default:0;column:proposal_count"`
	LastGeneratedAt *time.Time `gorm:"column:last_generated_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default pluralization
func (UserStats) TableName() string {
	return "user_stats"
}

// RecentSetupLimit caps how many generated setups are kept per user.
const RecentSetupLimit = 3

// RecentSetup is one entry of the per-user ring buffer of generated
// proposals. The first leg's departure code and date are denormalized for
// list display; the full leg sequence is kept as JSON so a setup can be
// reloaded into the form.
type RecentSetup struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;index;column:user_id"`
	DepartureCode string    `gorm:"type:varchar(8);column:departure_code"`
	DepartureDate string    `gorm:"type:varchar(20);column:departure_date"`
	CustomerName  string    `gorm:"type:varchar(200);column:customer_name"`
	Legs          string    `gorm:"type:text"` // JSON-encoded []FlightLeg
	Comment       string    `gorm:"type:text"`
}
