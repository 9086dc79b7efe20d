package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExchangeTokenInvalid signals a token-exchange attempt with a value
	// that does not equal the server's validation secret.
	ErrExchangeTokenInvalid = errors.New("invalid exchange token")
	// ErrTokenMissing signals a protected request without a credential.
	ErrTokenMissing = errors.New("missing auth token")
	// ErrTokenCorrupted signals a credential whose signature, format or
	// expiry fails verification.
	ErrTokenCorrupted = errors.New("corrupted auth token")
	// ErrTokenInvalid signals a verified credential whose embedded claim does
	// not equal the validation secret.
	ErrTokenInvalid = errors.New("invalid auth token")
)

// TokenClaims is the credential payload: the validation secret echoed back,
// plus the registered claims carrying the optional expiry.
type TokenClaims struct {
	Token string `json:"token"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-scoped credentials proving
// prior possession of the shared validation secret. Verification is
// stateless: a credential is reconstructible only by signature check.
type TokenService struct {
	signingSecret    []byte
	validationSecret string
	tokenTTL         time.Duration
	expiring         bool
}

// NewTokenService creates a token service from the gateway configuration.
// Development mode issues non-expiring tokens for trusted local operation;
// production tokens carry the configured TTL.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		signingSecret:    []byte(cfg.Auth.SigningSecret),
		validationSecret: cfg.Auth.ValidationSecret,
		tokenTTL:         cfg.Auth.TokenTTL,
		expiring:         !cfg.IsDevelopment(),
	}
}

// Issue exchanges the shared validation secret for a signed credential.
// The presented value must equal the server's validation secret exactly.
func (t *TokenService) Issue(exchangeToken string) (*models.AuthResponse, error) {
	if exchangeToken != t.validationSecret {
		return nil, ErrExchangeTokenInvalid
	}

	now := time.Now()
	claims := TokenClaims{Token: exchangeToken}
	if t.expiring {
		claims.RegisteredClaims = jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingSecret)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AuthToken: signed,
		Timestamp: strconv.FormatInt(now.UnixMilli(), 10),
	}, nil
}

// Verify checks a presented credential: optional bearer prefix stripped,
// signature and expiry verified, then the embedded claim compared against
// the validation secret. Verification has no side effects, so repeating it
// on the same credential always yields the same result.
func (t *TokenService) Verify(presented string) error {
	if presented == "" {
		return ErrTokenMissing
	}

	tokenString := strings.TrimPrefix(presented, "Bearer ")

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return t.signingSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrTokenCorrupted
	}

	if claims.Token != t.validationSecret {
		return ErrTokenInvalid
	}

	return nil
}
