// internal/util/errors_test.go
package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsWrapInvalidInput(t *testing.T) {
	for _, err := range []error{ErrEmailRequired, ErrSuperuserNotStaff, ErrSuperuserNotSuperuser, ErrInvalidKYCStatus} {
		assert.True(t, IsError(err, ErrInvalidInput), err.Error())
	}
	assert.False(t, IsError(ErrUserNotFound, ErrInvalidInput))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("failed to create user: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(dup))

	fk := &pq.Error{Code: "23503"}
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}
