package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "admin123"))
	assert.False(t, VerifyPassword(hash, "admin124"))
	assert.False(t, VerifyPassword("not-a-hash", "admin123"))
	assert.False(t, VerifyPassword("", ""))
}

func TestNormalizeCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NormalizeCost(0))
	assert.Equal(t, bcrypt.MinCost, NormalizeCost(1))
	assert.Equal(t, bcrypt.MaxCost, NormalizeCost(99))
	assert.Equal(t, 10, NormalizeCost(10))
}
