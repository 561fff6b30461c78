package vybe

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(tradeFrame))
	require.NoError(t, err)

	assert.Equal(t, Event{
		AuthorityAddress: "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
		BlockTime:        1718000000,
		IixOrdinal:       0,
		BaseMintAddress:  "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
		InterIxOrdinal:   1,
		IxOrdinal:        2,
		MarketID:         "58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2",
		QuoteMintAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Price:            "1.23",
		ProgramID:        "RAYDIUM_V4_ID",
		Signature:        "sig1",
		Slot:             270000000,
		TxIndex:          7,
		Fee:              "0.000005",
		FeePayer:         "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
		BaseSize:         "10",
		QuoteSize:        "12.3",
	}, ev)

	assert.Equal(t, time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC), ev.Time())
}

func TestDecodeEvent_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "not json", data: "not json"},
		{name: "array", data: `[1,2,3]`},
		{name: "missing fields", data: `{"signature":"sig","price":"1"}`, wantMsg: "blockTime"},
		{name: "wrong type", data: `{"slot":"270000000"}`},
		{name: "negative counter", data: `{"txIndex":-1}`},
		{name: "numeric price", data: `{"price":1.5}`},
		{name: "empty object", data: `{}`, wantMsg: "quoteSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))
			assert.Equal(t, KindDecode, Classify(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestEvent_Decimals(t *testing.T) {
	ev, err := DecodeEvent([]byte(tradeFrame))
	require.NoError(t, err)

	price, err := ev.PriceDecimal()
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("1.23")))

	base, err := ev.BaseSizeDecimal()
	require.NoError(t, err)
	quote, err := ev.QuoteSizeDecimal()
	require.NoError(t, err)
	assert.True(t, base.Mul(price).Equal(quote))

	fee, err := ev.FeeDecimal()
	require.NoError(t, err)
	assert.Equal(t, "0.000005", fee.String())

	ev.Price = "abc"
	_, err = ev.PriceDecimal()
	assert.Error(t, err)
}
