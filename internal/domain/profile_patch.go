// internal/domain/profile_patch.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DateLayout is the wire format of calendar dates such as the date of birth.
const DateLayout = "2006-01-02"

// ProfilePatch is a partial update of a Profile. Nil fields are left untouched;
// an empty string clears an optional text field.
type ProfilePatch struct {
	Name                 *string          `json:"name" validate:"omitempty,max=255"`
	FirstName            *string          `json:"first_name" validate:"omitempty,max=125"`
	LastName             *string          `json:"last_name" validate:"omitempty,max=125"`
	CurrentAddress       *string          `json:"current_address" validate:"omitempty,max=1000"`
	PermanentAddress     *string          `json:"permanent_address" validate:"omitempty,max=1000"`
	ContactNumber        *string          `json:"contact_number" validate:"omitempty,max=20"`
	DateOfBirth          *string          `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	AadharNumber         *string          `json:"aadhar_number" validate:"omitempty,max=20"`
	PlaceOfBirth         *string          `json:"place_of_birth" validate:"omitempty,max=125"`
	CountryOfResidence   *string          `json:"country_of_residence" validate:"omitempty,max=125"`
	JobTitle             *string          `json:"job_title" validate:"omitempty,max=125"`
	DefaultCurrency      *string          `json:"default_currency" validate:"omitempty,iso4217"`
	Salutation           *string          `json:"salutation" validate:"omitempty,max=20"`
	TimeZone             *string          `json:"time_zone" validate:"omitempty,timezone"`
	HighestQualification *string          `json:"highest_qualification" validate:"omitempty,max=125"`
	PassoutYear          *int             `json:"passout_year" validate:"omitempty,min=1900,max=2100"`
	EscrowAccountNumber  *string          `json:"escrow_account_number" validate:"omitempty,max=34"`
	TaxID                *string          `json:"tax_id" validate:"omitempty,max=20"`
	InvestmentLimit      NullableDecimal  `json:"investment_limit"`
	FundCommitted        *decimal.Decimal `json:"fund_committed"`
	PendingCashBalance   *decimal.Decimal `json:"pending_cash_balance"`
}

// NullableDecimal is a patch value for a nullable decimal column. Set reports
// whether the key was present at all, so an explicit null or "" clears the
// column while an absent key leaves it untouched.
type NullableDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

// NullableDecimalFrom returns a patch value setting d.
func NullableDecimalFrom(d decimal.Decimal) NullableDecimal {
	return NullableDecimal{Set: true, Value: decimal.NewNullDecimal(d)}
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json only calls it for
// keys present in the document, null included.
func (d *NullableDecimal) UnmarshalJSON(b []byte) error {
	d.Set = true
	if s := string(b); s == "null" || s == `""` {
		d.Value = decimal.NullDecimal{}
		return nil
	}
	return d.Value.UnmarshalJSON(b)
}

// Apply copies every set field of the patch into p.
func (patch ProfilePatch) Apply(p *Profile) error {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	setString(&p.FirstName, patch.FirstName)
	setString(&p.LastName, patch.LastName)
	setString(&p.CurrentAddress, patch.CurrentAddress)
	setString(&p.PermanentAddress, patch.PermanentAddress)
	setString(&p.ContactNumber, patch.ContactNumber)
	setString(&p.AadharNumber, patch.AadharNumber)
	setString(&p.PlaceOfBirth, patch.PlaceOfBirth)
	setString(&p.CountryOfResidence, patch.CountryOfResidence)
	setString(&p.JobTitle, patch.JobTitle)
	setString(&p.Salutation, patch.Salutation)
	setString(&p.TimeZone, patch.TimeZone)
	setString(&p.HighestQualification, patch.HighestQualification)
	setString(&p.EscrowAccountNumber, patch.EscrowAccountNumber)
	setString(&p.TaxID, patch.TaxID)

	if patch.DateOfBirth != nil {
		if *patch.DateOfBirth == "" {
			p.DateOfBirth = null.Time{}
		} else {
			dob, err := time.Parse(DateLayout, *patch.DateOfBirth)
			if err != nil {
				return fmt.Errorf("invalid date of birth %q: %w", *patch.DateOfBirth, err)
			}
			p.DateOfBirth = null.TimeFrom(dob)
		}
	}
	if patch.DefaultCurrency != nil {
		// The currency always falls back to the default rather than NULL.
		if *patch.DefaultCurrency == "" {
			p.DefaultCurrency = null.StringFrom(DefaultCurrency)
		} else {
			p.DefaultCurrency = null.StringFrom(*patch.DefaultCurrency)
		}
	}
	if patch.PassoutYear != nil {
		p.PassoutYear = null.IntFrom(*patch.PassoutYear)
	}
	if patch.InvestmentLimit.Set {
		p.InvestmentLimit = patch.InvestmentLimit.Value
	}
	if patch.FundCommitted != nil {
		p.FundCommitted = *patch.FundCommitted
	}
	if patch.PendingCashBalance != nil {
		p.PendingCashBalance = *patch.PendingCashBalance
	}
	return nil
}

func setString(dst *null.String, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = null.String{}
		return
	}
	*dst = null.StringFrom(*v)
}
