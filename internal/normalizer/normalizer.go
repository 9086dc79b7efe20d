// Package normalizer reshapes upstream payloads into the gateway's output
// schema. Functions here are pure: no I/O, no side effects, and an absent
// result (ok == false) instead of an error when a payload cannot be used.
package normalizer

import (
	"strconv"

	"github.com/hliejun/ethereum-gateway/internal/models"
)

// etherRate converts wei to ether: 10^18 wei = 1 ether.
const etherRate = 1e-18

// EtherString converts a wei-denominated integer string to an
// ether-denominated decimal string. The conversion is double-precision
// multiplication by 1e-18, stringified with the shortest round-trip decimal
// representation. ok is false when the input is not numeric.
func EtherString(wei string) (string, bool) {
	value, err := strconv.ParseFloat(wei, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(value*etherRate, 'f', -1, 64), true
}

// ParseBalance converts an upstream wei balance into the client balance
// shape. ok is false when the upstream value is not numeric; the caller maps
// that to a bad-upstream-data failure rather than defaulting to zero.
func ParseBalance(result string) (models.BalanceResponse, bool) {
	balance, ok := EtherString(result)
	if !ok {
		return models.BalanceResponse{}, false
	}
	return models.BalanceResponse{Balance: balance}, true
}

// ParseRates validates and reshapes the FX provider payload. All three
// fields must be present or the whole sheet is rejected; partial sheets are
// never produced.
func ParseRates(payload models.RatesPayload) (models.RateSheet, bool) {
	if payload.Base == "" || payload.Rates == nil || payload.Timestamp == nil {
		return models.RateSheet{}, false
	}
	return models.RateSheet{
		Base:      payload.Base,
		Rates:     payload.Rates,
		Timestamp: strconv.FormatInt(*payload.Timestamp, 10),
	}, true
}

// ParseTransactions normalizes a list of upstream transaction records
// relative to the queried address. ok is false when any record carries
// unparsable numeric fields; the list is rejected whole, never truncated.
func ParseTransactions(records []models.AccountTransaction, address string) ([]models.Transaction, bool) {
	transactions := make([]models.Transaction, 0, len(records))
	for _, record := range records {
		transaction, ok := parseTransaction(record, address)
		if !ok {
			return nil, false
		}
		transactions = append(transactions, transaction)
	}
	return transactions, true
}

// parseTransaction normalizes a single record. Direction is incoming when
// the record's recipient equals the queried address; the source address is
// always the counterparty.
func parseTransaction(record models.AccountTransaction, address string) (models.Transaction, bool) {
	value, ok := EtherString(record.Value)
	if !ok {
		return models.Transaction{}, false
	}

	gasPrice, err := strconv.ParseFloat(record.GasPrice, 64)
	if err != nil {
		return models.Transaction{}, false
	}
	gasUsed, err := strconv.ParseFloat(record.GasUsed, 64)
	if err != nil {
		return models.Transaction{}, false
	}
	gasPriceEther := gasPrice * etherRate

	direction := models.TransactionOutgoing
	counterparty := record.To
	if record.To == address {
		direction = models.TransactionIncoming
		counterparty = record.From
	}

	var status string
	switch record.TxReceiptStatus {
	case "1":
		status = models.TransactionSuccess
	case "0":
		status = models.TransactionFailed
	default:
		status = models.TransactionPending
	}

	return models.Transaction{
		Block: models.TransactionBlock{
			Confirmations: record.Confirmations,
			Height:        record.BlockNumber,
			ID:            record.BlockHash,
		},
		Gas: models.TransactionGas{
			CumulativeUsed: record.CumulativeGasUsed,
			Fee:            strconv.FormatFloat(gasPriceEther*gasUsed, 'f', -1, 64),
			Limit:          record.Gas,
			Price:          strconv.FormatFloat(gasPriceEther, 'f', -1, 64),
			Used:           record.GasUsed,
		},
		ID: record.Hash,
		Source: models.TransactionSource{
			Address:   counterparty,
			Timestamp: record.TimeStamp,
			Type:      direction,
		},
		Status: status,
		Value:  value,
	}, true
}
