package services

import (
	"context"
	"encoding/json"

	"github.com/hliejun/ethereum-gateway/internal/models"
)

// TokenServiceInterface defines the interface for credential issuance and
// verification
type TokenServiceInterface interface {
	Issue(exchangeToken string) (*models.AuthResponse, error)
	Verify(presented string) error
}

// AccountClientInterface defines the interface for account-data provider
// operations
type AccountClientInterface interface {
	GetBalance(ctx context.Context, address string) (json.RawMessage, error)
	GetTransactions(ctx context.Context, address string) (json.RawMessage, error)
}

// RatesClientInterface defines the interface for FX-rate provider operations
type RatesClientInterface interface {
	GetLatest(ctx context.Context, symbols []string) (models.RatesPayload, error)
}

// RatesServiceInterface defines the interface for cached rate-sheet lookups
type RatesServiceInterface interface {
	GetRates(ctx context.Context, symbols []string) (models.RateSheet, error)
}
