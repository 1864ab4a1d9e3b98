package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParserParse(t *testing.T) {
	userID := uuid.New()
	teamID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":     userID.String(),
		"team_id": teamID.String(),
		"role":    "manager",
	})

	claims, err := NewParser(testSecret).Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, teamID, claims.TeamID)
	assert.Equal(t, "manager", claims.Role)
}

func TestParserParse_Invalid(t *testing.T) {
	parser := NewParser(testSecret)
	userID := uuid.New()
	teamID := uuid.New()

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{
			"wrong secret",
			signToken(t, "other-secret", jwt.MapClaims{"sub": userID.String(), "team_id": teamID.String()}),
		},
		{
			"missing team claim",
			signToken(t, testSecret, jwt.MapClaims{"sub": userID.String()}),
		},
		{
			"malformed subject",
			signToken(t, testSecret, jwt.MapClaims{"sub": "worker-7", "team_id": teamID.String()}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.Parse(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
