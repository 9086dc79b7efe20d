package normalizer

import (
	"strconv"
	"testing"

	"github.com/hliejun/ethereum-gateway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtherString(t *testing.T) {
	t.Run("OneEther", func(t *testing.T) {
		result, ok := EtherString("1000000000000000000")
		require.True(t, ok)
		assert.Equal(t, "1", result)
	})

	t.Run("ZeroWei", func(t *testing.T) {
		result, ok := EtherString("0")
		require.True(t, ok)
		assert.Equal(t, "0", result)
	})

	t.Run("FractionalEther", func(t *testing.T) {
		result, ok := EtherString("1500000000000000000")
		require.True(t, ok)

		parsed, err := strconv.ParseFloat(result, 64)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, parsed, 1e-12)
	})

	t.Run("SingleWei", func(t *testing.T) {
		result, ok := EtherString("1")
		require.True(t, ok)
		assert.Equal(t, "0.000000000000000001", result)
	})

	t.Run("NonNumericInput", func(t *testing.T) {
		for _, input := range []string{"", "12ab", "one ether", "0x10"} {
			_, ok := EtherString(input)
			assert.False(t, ok, "input %q should not parse", input)
		}
	})
}

func TestParseBalance(t *testing.T) {
	t.Run("ValidBalance", func(t *testing.T) {
		response, ok := ParseBalance("1000000000000000000")
		require.True(t, ok)
		assert.Equal(t, "1", response.Balance)
	})

	t.Run("InvalidBalance", func(t *testing.T) {
		_, ok := ParseBalance("not-a-number")
		assert.False(t, ok)
	})
}

func TestParseRates(t *testing.T) {
	timestamp := int64(1609459200)

	t.Run("CompletePayload", func(t *testing.T) {
		sheet, ok := ParseRates(models.RatesPayload{
			Base:      "USD",
			Rates:     map[string]float64{"ETH": 0.00132, "EUR": 0.89},
			Timestamp: &timestamp,
		})
		require.True(t, ok)
		assert.Equal(t, "USD", sheet.Base)
		assert.Equal(t, "1609459200", sheet.Timestamp)
		assert.InDelta(t, 0.00132, sheet.Rates["ETH"], 1e-12)
	})

	t.Run("MissingTimestamp", func(t *testing.T) {
		_, ok := ParseRates(models.RatesPayload{
			Base:  "USD",
			Rates: map[string]float64{"ETH": 0.00132},
		})
		assert.False(t, ok)
	})

	t.Run("MissingBase", func(t *testing.T) {
		_, ok := ParseRates(models.RatesPayload{
			Rates:     map[string]float64{"ETH": 0.00132},
			Timestamp: &timestamp,
		})
		assert.False(t, ok)
	})

	t.Run("MissingRates", func(t *testing.T) {
		_, ok := ParseRates(models.RatesPayload{
			Base:      "USD",
			Timestamp: &timestamp,
		})
		assert.False(t, ok)
	})
}

func TestParseTransactions(t *testing.T) {
	queried := "0xc94770007dda54cF92009BFF0dE90c06F603a09f"
	other := "0x281055afc982d96fab65b3a49cac8b878184cb16"

	record := models.AccountTransaction{
		BlockHash:         "0xdeadbeef",
		BlockNumber:       "6139707",
		Confirmations:     "120",
		CumulativeGasUsed: "314159",
		From:              other,
		Gas:               "50000",
		GasPrice:          "20000000000",
		GasUsed:           "21000",
		Hash:              "0xabc123",
		TimeStamp:         "1529236757",
		To:                queried,
		TxReceiptStatus:   "1",
		Value:             "1000000000000000000",
	}

	t.Run("IncomingTransaction", func(t *testing.T) {
		transactions, ok := ParseTransactions([]models.AccountTransaction{record}, queried)
		require.True(t, ok)
		require.Len(t, transactions, 1)

		tx := transactions[0]
		assert.Equal(t, models.TransactionIncoming, tx.Source.Type)
		assert.Equal(t, other, tx.Source.Address)
		assert.Equal(t, models.TransactionSuccess, tx.Status)
		assert.Equal(t, "1", tx.Value)
		assert.Equal(t, "0xabc123", tx.ID)
		assert.Equal(t, "6139707", tx.Block.Height)
		assert.Equal(t, "0xdeadbeef", tx.Block.ID)
		assert.Equal(t, "120", tx.Block.Confirmations)
		assert.Equal(t, "50000", tx.Gas.Limit)
		assert.Equal(t, "21000", tx.Gas.Used)
		assert.Equal(t, "314159", tx.Gas.CumulativeUsed)
		assert.Equal(t, "1529236757", tx.Source.Timestamp)

		price, err := strconv.ParseFloat(tx.Gas.Price, 64)
		require.NoError(t, err)
		assert.InDelta(t, 2e-8, price, 1e-20)

		fee, err := strconv.ParseFloat(tx.Gas.Fee, 64)
		require.NoError(t, err)
		assert.InDelta(t, 0.00042, fee, 1e-15)
	})

	t.Run("OutgoingTransaction", func(t *testing.T) {
		outgoing := record
		outgoing.From = queried
		outgoing.To = other

		transactions, ok := ParseTransactions([]models.AccountTransaction{outgoing}, queried)
		require.True(t, ok)
		require.Len(t, transactions, 1)

		assert.Equal(t, models.TransactionOutgoing, transactions[0].Source.Type)
		assert.Equal(t, other, transactions[0].Source.Address)
	})

	t.Run("ReceiptStatusMapping", func(t *testing.T) {
		tests := []struct {
			receiptStatus string
			want          string
		}{
			{"1", models.TransactionSuccess},
			{"0", models.TransactionFailed},
			{"", models.TransactionPending},
			{"2", models.TransactionPending},
		}

		for _, tt := range tests {
			modified := record
			modified.TxReceiptStatus = tt.receiptStatus

			transactions, ok := ParseTransactions([]models.AccountTransaction{modified}, queried)
			require.True(t, ok)
			assert.Equal(t, tt.want, transactions[0].Status,
				"receipt status %q", tt.receiptStatus)
		}
	})

	t.Run("UnparsableValueRejectsList", func(t *testing.T) {
		broken := record
		broken.Value = "garbage"

		_, ok := ParseTransactions([]models.AccountTransaction{record, broken}, queried)
		assert.False(t, ok)
	})

	t.Run("UnparsableGasRejectsList", func(t *testing.T) {
		broken := record
		broken.GasPrice = ""

		_, ok := ParseTransactions([]models.AccountTransaction{broken}, queried)
		assert.False(t, ok)
	})

	t.Run("EmptyList", func(t *testing.T) {
		transactions, ok := ParseTransactions(nil, queried)
		require.True(t, ok)
		assert.Empty(t, transactions)
	})
}
