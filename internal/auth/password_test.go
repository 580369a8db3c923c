package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("123456")
	require.NoError(t, err)
	second, err := h.Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, "123456", first)
	assert.NotEqual(t, first, second, "salts must differ")
	assert.True(t, h.Verify(first, "123456"))
	assert.True(t, h.Verify(second, "123456"))
	assert.False(t, h.Verify(first, "1234567"))
	assert.False(t, h.Verify("not-a-hash", "123456"))
}

func TestPasswordHasherCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).Cost())
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())

	hashed, err := NewPasswordHasher(bcrypt.MinCost).Hash("secret")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
