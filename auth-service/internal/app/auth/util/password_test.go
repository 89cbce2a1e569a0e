package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword("securepassword123")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "securepassword123", hash)
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("securepassword123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("securepassword123", hash))
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("securepassword123")
	require.NoError(t, err)

	assert.False(t, CheckPassword("wrongpassword", hash))
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	hash1, err := HashPassword("securepassword123")
	require.NoError(t, err)

	hash2, err := HashPassword("securepassword123")
	require.NoError(t, err)

	// bcrypt использует случайную соль, хэши не должны совпадать
	assert.NotEqual(t, hash1, hash2)
}
