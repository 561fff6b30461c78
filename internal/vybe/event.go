package vybe

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event is one decoded trade occurrence. Precision-sensitive amounts stay
// as decimal strings; counters and timestamps are integers.
type Event struct {
	AuthorityAddress string `json:"authorityAddress"`
	BlockTime        uint64 `json:"blockTime"`
	IixOrdinal       uint32 `json:"iixOrdinal"`
	BaseMintAddress  string `json:"baseMintAddress"`
	InterIxOrdinal   uint32 `json:"interIxOrdinal"`
	IxOrdinal        uint32 `json:"ixOrdinal"`
	MarketID         string `json:"marketId"`
	QuoteMintAddress string `json:"quoteMintAddress"`
	Price            string `json:"price"`
	ProgramID        string `json:"programId"`
	Signature        string `json:"signature"`
	Slot             uint64 `json:"slot"`
	TxIndex          uint32 `json:"txIndex"`
	Fee              string `json:"fee"`
	FeePayer         string `json:"feePayer"`
	BaseSize         string `json:"baseSize"`
	QuoteSize        string `json:"quoteSize"`
}

// wireEvent mirrors Event with pointers so absent fields can be detected.
type wireEvent struct {
	AuthorityAddress *string `json:"authorityAddress"`
	BlockTime        *uint64 `json:"blockTime"`
	IixOrdinal       *uint32 `json:"iixOrdinal"`
	BaseMintAddress  *string `json:"baseMintAddress"`
	InterIxOrdinal   *uint32 `json:"interIxOrdinal"`
	IxOrdinal        *uint32 `json:"ixOrdinal"`
	MarketID         *string `json:"marketId"`
	QuoteMintAddress *string `json:"quoteMintAddress"`
	Price            *string `json:"price"`
	ProgramID        *string `json:"programId"`
	Signature        *string `json:"signature"`
	Slot             *uint64 `json:"slot"`
	TxIndex          *uint32 `json:"txIndex"`
	Fee              *string `json:"fee"`
	FeePayer         *string `json:"feePayer"`
	BaseSize         *string `json:"baseSize"`
	QuoteSize        *string `json:"quoteSize"`
}

// DecodeEvent decodes one inbound text frame. Every field is required.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var missing []string
	str := func(name string, p *string) string {
		if p == nil {
			missing = append(missing, name)
			return ""
		}
		return *p
	}
	u64 := func(name string, p *uint64) uint64 {
		if p == nil {
			missing = append(missing, name)
			return 0
		}
		return *p
	}
	u32 := func(name string, p *uint32) uint32 {
		if p == nil {
			missing = append(missing, name)
			return 0
		}
		return *p
	}

	ev := Event{
		AuthorityAddress: str("authorityAddress", w.AuthorityAddress),
		BlockTime:        u64("blockTime", w.BlockTime),
		IixOrdinal:       u32("iixOrdinal", w.IixOrdinal),
		BaseMintAddress:  str("baseMintAddress", w.BaseMintAddress),
		InterIxOrdinal:   u32("interIxOrdinal", w.InterIxOrdinal),
		IxOrdinal:        u32("ixOrdinal", w.IxOrdinal),
		MarketID:         str("marketId", w.MarketID),
		QuoteMintAddress: str("quoteMintAddress", w.QuoteMintAddress),
		Price:            str("price", w.Price),
		ProgramID:        str("programId", w.ProgramID),
		Signature:        str("signature", w.Signature),
		Slot:             u64("slot", w.Slot),
		TxIndex:          u32("txIndex", w.TxIndex),
		Fee:              str("fee", w.Fee),
		FeePayer:         str("feePayer", w.FeePayer),
		BaseSize:         str("baseSize", w.BaseSize),
		QuoteSize:        str("quoteSize", w.QuoteSize),
	}

	if len(missing) > 0 {
		return Event{}, fmt.Errorf("%w: missing field(s) %s", ErrDecode, strings.Join(missing, ", "))
	}
	return ev, nil
}

// Time returns the block time as a UTC timestamp.
func (e Event) Time() time.Time {
	return time.Unix(int64(e.BlockTime), 0).UTC()
}

// PriceDecimal parses Price.
func (e Event) PriceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.Price)
}

// FeeDecimal parses Fee.
func (e Event) FeeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.Fee)
}

// BaseSizeDecimal parses BaseSize.
func (e Event) BaseSizeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.BaseSize)
}

// QuoteSizeDecimal parses QuoteSize.
func (e Event) QuoteSizeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.QuoteSize)
}
