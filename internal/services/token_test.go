package services

import (
	"testing"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTestConfig(mode string, ttl time.Duration) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: mode},
		Auth: config.AuthConfig{
			SigningSecret:    "signing-secret",
			ValidationSecret: "secret123",
			TokenTTL:         ttl,
		},
	}
}

func TestTokenServiceIssue(t *testing.T) {
	service := NewTokenService(tokenTestConfig(config.ModeDevelopment, time.Hour))

	t.Run("CorrectSecret", func(t *testing.T) {
		response, err := service.Issue("secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, response.AuthToken)
		assert.NotEmpty(t, response.Timestamp)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := service.Issue("wrong")
		assert.ErrorIs(t, err, ErrExchangeTokenInvalid)
	})

	t.Run("EmptySecret", func(t *testing.T) {
		empty := NewTokenService(tokenTestConfig(config.ModeDevelopment, time.Hour))
		_, err := empty.Issue("")
		// An empty validation secret is not configured here, so an empty
		// exchange value must still be rejected.
		assert.ErrorIs(t, err, ErrExchangeTokenInvalid)
	})
}

func TestTokenServiceVerify(t *testing.T) {
	service := NewTokenService(tokenTestConfig(config.ModeDevelopment, time.Hour))

	issued, err := service.Issue("secret123")
	require.NoError(t, err)

	t.Run("ValidCredential", func(t *testing.T) {
		assert.NoError(t, service.Verify(issued.AuthToken))
	})

	t.Run("BearerPrefix", func(t *testing.T) {
		assert.NoError(t, service.Verify("Bearer "+issued.AuthToken))
	})

	t.Run("MissingToken", func(t *testing.T) {
		assert.ErrorIs(t, service.Verify(""), ErrTokenMissing)
	})

	t.Run("CorruptedToken", func(t *testing.T) {
		assert.ErrorIs(t, service.Verify("not-a-jwt"), ErrTokenCorrupted)
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		assert.ErrorIs(t, service.Verify(issued.AuthToken+"x"), ErrTokenCorrupted)
	})

	t.Run("ClaimMismatch", func(t *testing.T) {
		// Signed with the same key but echoing a different validation secret.
		other := NewTokenService(&config.Config{
			Server: config.ServerConfig{Mode: config.ModeDevelopment},
			Auth: config.AuthConfig{
				SigningSecret:    "signing-secret",
				ValidationSecret: "another-secret",
				TokenTTL:         time.Hour,
			},
		})
		foreign, err := other.Issue("another-secret")
		require.NoError(t, err)

		assert.ErrorIs(t, service.Verify(foreign.AuthToken), ErrTokenInvalid)
	})

	t.Run("Idempotent", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.NoError(t, service.Verify(issued.AuthToken))
		}
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	t.Run("ProductionTokensExpire", func(t *testing.T) {
		expired := NewTokenService(tokenTestConfig(config.ModeProduction, -time.Minute))

		issued, err := expired.Issue("secret123")
		require.NoError(t, err)

		assert.ErrorIs(t, expired.Verify(issued.AuthToken), ErrTokenCorrupted)
	})

	t.Run("ProductionTokensValidWithinTTL", func(t *testing.T) {
		service := NewTokenService(tokenTestConfig(config.ModeProduction, time.Hour))

		issued, err := service.Issue("secret123")
		require.NoError(t, err)

		assert.NoError(t, service.Verify(issued.AuthToken))
	})

	t.Run("DevelopmentTokensDoNotExpire", func(t *testing.T) {
		service := NewTokenService(tokenTestConfig(config.ModeDevelopment, -time.Minute))

		issued, err := service.Issue("secret123")
		require.NoError(t, err)

		assert.NoError(t, service.Verify(issued.AuthToken))
	})
}
