package utils

import (
	"testing"
	"time"

	"mentorpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(models.UserClaims{UserID: 7, Email: "expert@example.com", Role: models.RoleExpert}, "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "expert@example.com", claims.Email)
	assert.Equal(t, models.RoleExpert, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(models.UserClaims{UserID: 7}, "s3cret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(models.UserClaims{UserID: 7}, "s3cret", -time.Minute)
	require.NoError(t, err)
	anonymous, err := GenerateToken(models.UserClaims{}, "s3cret", time.Hour)
	require.NoError(t, err)
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
		UserID:           7,
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := map[string]struct {
		token, secret string
	}{
		"wrong secret": {valid, "other"},
		"expired":      {expired, "s3cret"},
		"no user":      {anonymous, "s3cret"},
		"other issuer": {foreign, "s3cret"},
		"garbage":      {"not.a.token", "s3cret"},
		"empty secret": {valid, ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	_, err := GenerateToken(models.UserClaims{UserID: 1}, "", time.Hour)
	assert.Error(t, err)
}
