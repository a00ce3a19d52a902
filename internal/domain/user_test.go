// internal/domain/user_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestNewUser(t *testing.T) {
	user := NewUser("jane@example.com")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, KYCStatusUnverified, user.KYCStatus)
	assert.Equal(t, null.StringFrom("INR"), user.DefaultCurrency)
	assert.True(t, user.VerificationDate.Valid)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	assert.False(t, user.KYCComplete)
	assert.False(t, user.KYCSubmitted)
	assert.False(t, user.OnBoardingComplete)
	assert.True(t, user.FundCommitted.IsZero())
	assert.False(t, user.DateJoined.IsZero())

	other := NewUser("jane@example.com")
	assert.NotEqual(t, user.ID, other.ID)
}

func TestUserStringAndURL(t *testing.T) {
	user := NewUser("jane@example.com")

	assert.Equal(t, "jane@example.com", user.String())
	assert.Equal(t, "/users/"+user.ID.String()+"/", user.URL())
}

func TestProfileApplyDefaultsKeepsSetValues(t *testing.T) {
	verified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := Profile{
		KYCStatus:        KYCStatusPending,
		DefaultCurrency:  null.StringFrom("USD"),
		VerificationDate: null.TimeFrom(verified),
	}

	p.ApplyDefaults(time.Now())

	assert.Equal(t, KYCStatusPending, p.KYCStatus)
	assert.Equal(t, "USD", p.DefaultCurrency.String)
	assert.Equal(t, verified, p.VerificationDate.Time)
}

func TestKYCStatus(t *testing.T) {
	t.Run("ParseKnown", func(t *testing.T) {
		for _, s := range KYCStatuses {
			parsed, err := ParseKYCStatus(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("ParseUnknown", func(t *testing.T) {
		_, err := ParseKYCStatus("approved")
		assert.Error(t, err)
	})

	t.Run("Labels", func(t *testing.T) {
		assert.Equal(t, "Action Required", KYCStatusActionRequired.Label())
		assert.Equal(t, "Unverified", KYCStatusUnverified.Label())
	})

	t.Run("Scan", func(t *testing.T) {
		var s KYCStatus
		require.NoError(t, s.Scan([]byte("rejected")))
		assert.Equal(t, KYCStatusRejected, s)

		assert.Error(t, s.Scan("bogus"))
		assert.Error(t, s.Scan(nil))
		assert.Error(t, s.Scan(42))
	})

	t.Run("Value", func(t *testing.T) {
		v, err := KYCStatusVerified.Value()
		require.NoError(t, err)
		assert.Equal(t, "verified", v)

		_, err = KYCStatus("bogus").Value()
		assert.Error(t, err)
	})
}

func TestProfilePatchApply(t *testing.T) {
	str := func(s string) *string { return &s }

	p := Profile{
		FirstName:       null.StringFrom("Old"),
		JobTitle:        null.StringFrom("Engineer"),
		DefaultCurrency: null.StringFrom("USD"),
	}
	limit := decimal.NewFromInt(50000)
	year := 2015

	err := ProfilePatch{
		Name:            str("Jane Doe"),
		FirstName:       str("Jane"),
		JobTitle:        str(""),
		DateOfBirth:     str("1990-05-17"),
		DefaultCurrency: str(""),
		PassoutYear:     &year,
		InvestmentLimit: NullableDecimalFrom(limit),
	}.Apply(&p)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, null.StringFrom("Jane"), p.FirstName)
	assert.False(t, p.JobTitle.Valid)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), p.DateOfBirth.Time)
	assert.Equal(t, "INR", p.DefaultCurrency.String)
	assert.Equal(t, 2015, p.PassoutYear.Int)
	assert.True(t, p.InvestmentLimit.Valid)
	assert.True(t, limit.Equal(p.InvestmentLimit.Decimal))
	assert.False(t, p.LastName.Valid, "untouched fields stay unset")

	err = ProfilePatch{DateOfBirth: str("17/05/1990")}.Apply(&p)
	assert.Error(t, err)
}

func TestProfilePatchInvestmentLimitJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValid bool
		want      string
	}{
		{name: "Absent", body: `{"job_title":"Analyst"}`, wantValid: true, want: "1000"},
		{name: "Quoted", body: `{"investment_limit":"250000.50"}`, wantValid: true, want: "250000.5"},
		{name: "Number", body: `{"investment_limit":75000}`, wantValid: true, want: "75000"},
		{name: "NullClears", body: `{"investment_limit":null}`, wantValid: false},
		{name: "EmptyClears", body: `{"investment_limit":""}`, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{InvestmentLimit: decimal.NewNullDecimal(decimal.NewFromInt(1000))}

			var patch ProfilePatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))
			require.NoError(t, patch.Apply(&p))

			assert.Equal(t, tt.wantValid, p.InvestmentLimit.Valid)
			if tt.wantValid {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(p.InvestmentLimit.Decimal))
			}
		})
	}

	var patch ProfilePatch
	assert.Error(t, json.Unmarshal([]byte(`{"investment_limit":"lots"}`), &patch))
}
