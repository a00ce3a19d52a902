// pkg/crypto/password.go
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// UnusablePrefix marks a stored password that can never match any input.
	UnusablePrefix = "!"
	unusableLength = 40
)

var randomRead = rand.Read

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, falling back to DefaultCost
// when cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash hashes a password using bcrypt. Passwords of any length are accepted.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Check compares a password with a hash. Unusable hashes never match.
func (h *PasswordHasher) Check(password, hash string) bool {
	if !IsUsable(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// prehash reduces password to the 64-byte hex SHA-256 digest, which stays
// under bcrypt's 72-byte input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// Unusable returns a random marker for accounts created without a password.
func (h *PasswordHasher) Unusable() (string, error) {
	b := make([]byte, unusableLength)
	if _, err := randomRead(b); err != nil {
		return "", fmt.Errorf("failed to generate unusable password: %w", err)
	}
	return UnusablePrefix + base64.RawURLEncoding.EncodeToString(b)[:unusableLength], nil
}

// IsUsable reports whether hash can ever verify a password.
func IsUsable(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, UnusablePrefix)
}
