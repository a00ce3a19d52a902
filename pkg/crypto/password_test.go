// pkg/crypto/password_test.go
package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, h.Check("s3cret-pass", hash))
	assert.False(t, h.Check("wrong-pass", hash))
}

func TestHashLongPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	// 20 characters, 80 bytes: over bcrypt's byte limit.
	emoji := strings.Repeat("\U0001F600", 20)
	hash, err := h.Hash(emoji)
	require.NoError(t, err)
	assert.True(t, h.Check(emoji, hash))

	// Passwords sharing the first 72 bytes must not collide.
	long := strings.Repeat("x", 72)
	hash, err = h.Hash(long + "a")
	require.NoError(t, err)
	assert.True(t, h.Check(long+"a", hash))
	assert.False(t, h.Check(long+"b", hash))
	assert.False(t, h.Check(long, hash))
}

func TestUnusable(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Unusable()
	require.NoError(t, err)
	second, err := h.Unusable()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, UnusablePrefix))
	assert.Len(t, first, len(UnusablePrefix)+unusableLength)
	assert.NotEqual(t, first, second)
	assert.False(t, IsUsable(first))
	assert.False(t, h.Check("", first))
	assert.False(t, h.Check(first, first))
}

func TestUnusableRandomFailure(t *testing.T) {
	orig := randomRead
	t.Cleanup(func() { randomRead = orig })
	randomRead = func(b []byte) (int, error) { return 0, errors.New("entropy exhausted") }

	_, err := NewPasswordHasher(bcrypt.MinCost).Unusable()
	assert.Error(t, err)
}

func TestNewPasswordHasherCostBounds(t *testing.T) {
	assert.Equal(t, DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}

func TestIsUsable(t *testing.T) {
	assert.False(t, IsUsable(""))
	assert.False(t, IsUsable("!abc"))
	assert.True(t, IsUsable("$2a$04$abcdefghijklmnopqrstuv"))
}
