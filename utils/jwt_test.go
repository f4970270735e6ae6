package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "bistroboard", claims.Issuer)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestBlacklistedTokenIsRejected(t *testing.T) {
	token, err := GenerateToken(7, "staff")
	assert.NoError(t, err)

	_, err = ParseToken(token)
	assert.NoError(t, err)

	BlacklistToken(token)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
