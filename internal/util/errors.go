// internal/util/errors.go
package util

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Common application-specific errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEntry = errors.New("duplicate entry") // Unique constraint violated, e.g. an email already registered

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailRequired         = fmt.Errorf("%w: the given email must be set", ErrInvalidInput)
	ErrSuperuserNotStaff     = fmt.Errorf("%w: superuser must have is_staff=true", ErrInvalidInput)
	ErrSuperuserNotSuperuser = fmt.Errorf("%w: superuser must have is_superuser=true", ErrInvalidInput)
	ErrInvalidKYCStatus      = fmt.Errorf("%w: unknown kyc status", ErrInvalidInput)
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// IsUniqueViolation reports whether err carries a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
