package models

// AuthRequest represents the token-exchange request body. Token must equal
// the server's validation secret for a credential to be issued.
type AuthRequest struct {
	Token string `json:"token"`
}

// AuthResponse represents a successful token exchange. Timestamp is the
// issuance time in epoch milliseconds, stringified.
type AuthResponse struct {
	AuthToken string `json:"authToken"`
	Timestamp string `json:"timestamp"`
}
