// internal/domain/user.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DefaultCurrency is the currency assigned to new users.
const DefaultCurrency = "INR"

// Profile holds the descriptive and KYC attributes of a registered participant.
type Profile struct {
	Name                   string              `db:"name" json:"name"`
	FirstName              null.String         `db:"first_name" json:"first_name"`
	LastName               null.String         `db:"last_name" json:"last_name"`
	CurrentAddress         null.String         `db:"current_address" json:"current_address"`     // Requires verification before use
	PermanentAddress       null.String         `db:"permanent_address" json:"permanent_address"` // Requires verification before use
	ContactNumber          null.String         `db:"contact_number" json:"contact_number"`       // International format
	DateOfBirth            null.Time           `db:"date_of_birth" json:"date_of_birth"`
	KYCComplete            bool                `db:"kyc_complete" json:"kyc_complete"`
	KYCCompleteDate        null.Time           `db:"kyc_complete_date" json:"kyc_complete_date"`
	KYCStatus              KYCStatus           `db:"kyc_status" json:"kyc_status"`
	KYCSubmitted           bool                `db:"kyc_submitted" json:"kyc_submitted"`
	OnBoardingComplete     bool                `db:"on_boarding_complete" json:"on_boarding_complete"`
	OnBoardingCompleteDate null.Time           `db:"on_boarding_complete_date" json:"on_boarding_complete_date"`
	AadharNumber           null.String         `db:"aadhar_number" json:"aadhar_number"`
	PlaceOfBirth           null.String         `db:"place_of_birth" json:"place_of_birth"`
	VerificationDate       null.Time           `db:"verification_date" json:"verification_date"`
	RegisteredIPAddress    null.String         `db:"registered_ip_address" json:"registered_ip_address"`
	CountryOfResidence     null.String         `db:"country_of_residence" json:"country_of_residence"`
	JobTitle               null.String         `db:"job_title" json:"job_title"`
	DefaultCurrency        null.String         `db:"default_currency" json:"default_currency"`
	Salutation             null.String         `db:"salutation" json:"salutation"`
	TimeZone               null.String         `db:"time_zone" json:"time_zone"`
	HighestQualification   null.String         `db:"highest_qualification" json:"highest_qualification"`
	PassoutYear            null.Int            `db:"passout_year" json:"passout_year"`
	EscrowAccountNumber    null.String         `db:"escrow_account_number" json:"escrow_account_number"`
	TaxID                  null.String         `db:"tax_id" json:"tax_id"`
	InvestmentLimit        decimal.NullDecimal `db:"investment_limit" json:"investment_limit"`
	FundCommitted          decimal.Decimal     `db:"fund_committed" json:"fund_committed"`
	PendingCashBalance     decimal.Decimal     `db:"pending_cash_balance" json:"pending_cash_balance"`
}

// ApplyDefaults fills the fields that carry a default value when left unset.
func (p *Profile) ApplyDefaults(now time.Time) {
	if p.KYCStatus == "" {
		p.KYCStatus = KYCStatusUnverified
	}
	if !p.DefaultCurrency.Valid || p.DefaultCurrency.String == "" {
		p.DefaultCurrency = null.StringFrom(DefaultCurrency)
	}
	if !p.VerificationDate.Valid {
		p.VerificationDate = null.TimeFrom(now)
	}
}

// Credentials holds the authentication state of a user, kept apart from the profile.
type Credentials struct {
	PasswordHash string    `db:"password" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	LastLogin    null.Time `db:"last_login" json:"last_login"`
}

// User represents a registered participant, borrower or investor, identified by email.
type User struct {
	ID    uuid.UUID `db:"id" json:"id"`       // Generated once, never changes
	Email string    `db:"email" json:"email"` // Unique, normalized login identifier
	Profile
	Credentials
	DateJoined time.Time `db:"date_joined" json:"date_joined"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new active User with a fresh identifier and default profile values.
func NewUser(email string) *User {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Email:       email,
		Credentials: Credentials{IsActive: true},
		DateJoined:  now,
		UpdatedAt:   now,
	}
	user.Profile.ApplyDefaults(now)
	return user
}

// String returns the email, the user's display form.
func (u *User) String() string {
	return u.Email
}

// URL returns the canonical detail path for the user.
func (u *User) URL() string {
	return fmt.Sprintf("/users/%s/", u.ID)
}
