// internal/domain/kyc_status.go
package domain

import (
	"database/sql/driver"
	"fmt"
)

// KYCStatus is the Know-Your-Customer verification state of a user.
// Only the constants below are valid values.
type KYCStatus string

const (
	KYCStatusUnverified     KYCStatus = "unverified"
	KYCStatusVerified       KYCStatus = "verified"
	KYCStatusPending        KYCStatus = "pending"
	KYCStatusActionRequired KYCStatus = "action_required"
	KYCStatusCancelled      KYCStatus = "cancelled"
	KYCStatusFailed         KYCStatus = "failed"
	KYCStatusRejected       KYCStatus = "rejected"
)

// KYCStatuses lists every valid status in display order.
var KYCStatuses = []KYCStatus{
	KYCStatusUnverified,
	KYCStatusVerified,
	KYCStatusPending,
	KYCStatusActionRequired,
	KYCStatusCancelled,
	KYCStatusFailed,
	KYCStatusRejected,
}

// ParseKYCStatus converts s into a KYCStatus, rejecting unknown values.
func ParseKYCStatus(s string) (KYCStatus, error) {
	status := KYCStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown kyc status %q", s)
	}
	return status, nil
}

// Valid reports whether s is one of the enumerated statuses.
func (s KYCStatus) Valid() bool {
	switch s {
	case KYCStatusUnverified, KYCStatusVerified, KYCStatusPending, KYCStatusActionRequired,
		KYCStatusCancelled, KYCStatusFailed, KYCStatusRejected:
		return true
	}
	return false
}

// Label returns the human readable name of the status.
func (s KYCStatus) Label() string {
	switch s {
	case KYCStatusUnverified:
		return "Unverified"
	case KYCStatusVerified:
		return "Verified"
	case KYCStatusPending:
		return "Pending"
	case KYCStatusActionRequired:
		return "Action Required"
	case KYCStatusCancelled:
		return "Cancelled"
	case KYCStatusFailed:
		return "Failed"
	case KYCStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Value implements driver.Valuer.
func (s KYCStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown kyc status %q", string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *KYCStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		return fmt.Errorf("kyc status cannot be NULL")
	default:
		return fmt.Errorf("cannot scan %T into KYCStatus", src)
	}

	status, err := ParseKYCStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}
