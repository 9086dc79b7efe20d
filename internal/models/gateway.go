package models

// BalanceRequest represents the incoming request for an account balance
type BalanceRequest struct {
	Address string `json:"address"`
}

// BalanceResponse carries an ether-denominated balance as a decimal string
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// RatesRequest represents the incoming request for currency exchange rates.
// Symbols must be non-empty and include "ETH".
type RatesRequest struct {
	Symbols []string `json:"symbols"`
}

// RateSheet is the normalized exchange-rate result. All three fields are
// required; a payload missing any of them is rejected whole.
type RateSheet struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp string             `json:"timestamp"`
}

// TransactionsRequest represents the incoming request for a transaction list
type TransactionsRequest struct {
	Address string `json:"address"`
}

// TransactionsResponse carries the normalized transaction records
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction is a normalized on-chain transaction. Value, gas fee and gas
// price are ether-denominated decimal strings scaled from upstream wei.
type Transaction struct {
	Block  TransactionBlock  `json:"block"`
	Gas    TransactionGas    `json:"gas"`
	ID     string            `json:"id"`
	Source TransactionSource `json:"source"`
	Status string            `json:"status"`
	Value  string            `json:"value"`
}

// TransactionBlock holds block placement details of a transaction
type TransactionBlock struct {
	Confirmations string `json:"confirmations"`
	Height        string `json:"height"`
	ID            string `json:"id"`
}

// TransactionGas holds gas accounting details of a transaction
type TransactionGas struct {
	CumulativeUsed string `json:"cumulativeUsed"`
	Fee            string `json:"fee"`
	Limit          string `json:"limit"`
	Price          string `json:"price"`
	Used           string `json:"used"`
}

// TransactionSource describes the counterparty and direction relative to the
// queried address: Type is "incoming" when the queried address is the
// recipient, "outgoing" otherwise; Address is always the other party.
type TransactionSource struct {
	Address   string `json:"address"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// Transaction direction values
const (
	TransactionIncoming = "incoming"
	TransactionOutgoing = "outgoing"
)

// Transaction status values derived from the upstream receipt status
const (
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
	TransactionPending = "pending"
)
