package models

import "encoding/json"

// AccountEnvelope is the account-data provider's own success/failure wrapper.
// Status is "1" on success; Result holds the payload and its shape depends on
// the requested action, so it stays raw until the handler decodes it.
type AccountEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// AccountTransaction is a single transaction record as returned by the
// account-data provider. All numeric fields arrive as decimal strings.
type AccountTransaction struct {
	BlockHash         string `json:"blockHash"`
	BlockNumber       string `json:"blockNumber"`
	Confirmations     string `json:"confirmations"`
	CumulativeGasUsed string `json:"cumulativeGasUsed"`
	From              string `json:"from"`
	Gas               string `json:"gas"`
	GasPrice          string `json:"gasPrice"`
	GasUsed           string `json:"gasUsed"`
	Hash              string `json:"hash"`
	TimeStamp         string `json:"timeStamp"`
	To                string `json:"to"`
	TxReceiptStatus   string `json:"txreceipt_status"`
	Value             string `json:"value"`
}

// RatesPayload is the FX provider's latest-rates response. Timestamp is a
// pointer so an absent field is distinguishable from zero.
type RatesPayload struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp *int64             `json:"timestamp"`
}
