package vybe

import (
	"errors"
	"fmt"

	"solana-trade-stream/internal/solana"
)

// ConfigureType is the envelope tag of the session configuration message.
const ConfigureType = "configure"

// TradeFilter narrows the trade stream. Nil fields are not constrained.
type TradeFilter struct {
	TokenMintAddress *string `json:"tokenMintAddress,omitempty"`
	FeePayer         *string `json:"feePayer,omitempty"`
	ProgramID        *string `json:"programId,omitempty"`
	AuthorityAddress *string `json:"authorityAddress,omitempty"`
	MarketID         *string `json:"marketId,omitempty"`
	QuoteMintAddress *string `json:"quoteMintAddress,omitempty"`
	BaseMintAddress  *string `json:"baseMintAddress,omitempty"`
}

// TransferFilter narrows the transfer stream.
type TransferFilter struct {
	FeePayer             *string  `json:"feePayer,omitempty"`
	MinAmount            *float64 `json:"minAmount,omitempty"`
	MaxAmount            *float64 `json:"maxAmount,omitempty"`
	ProgramID            *string  `json:"programId,omitempty"`
	ReceiverAddress      *string  `json:"receiverAddress,omitempty"`
	ReceiverTokenAccount *string  `json:"receiverTokenAccount,omitempty"`
	SenderAddress        *string  `json:"senderAddress,omitempty"`
	SenderTokenAccount   *string  `json:"senderTokenAccount,omitempty"`
	TokenMintAddress     *string  `json:"tokenMintAddress,omitempty"`
}

// OraclePriceFilter narrows the oracle price stream.
type OraclePriceFilter struct {
	PriceFeedAccount *string `json:"priceFeedAccount,omitempty"`
	ProductAccount   *string `json:"productAccount,omitempty"`
}

// Filters declares which event categories the venue should stream.
// A nil category is omitted from the wire; emptiness is left to the venue.
type Filters struct {
	Trades       []TradeFilter       `json:"trades,omitempty"`
	Transfers    []TransferFilter    `json:"transfers,omitempty"`
	OraclePrices []OraclePriceFilter `json:"oraclePrices,omitempty"`
}

// ConfigureMessage is sent once per connection, right after the handshake.
type ConfigureMessage struct {
	Type    string  `json:"type"`
	Filters Filters `json:"filters"`
}

// NewConfigureMessage wraps filters in a configure envelope.
func NewConfigureMessage(filters Filters) ConfigureMessage {
	return ConfigureMessage{Type: ConfigureType, Filters: filters}
}

// DefaultConfigureMessage streams Raydium V4 trades.
func DefaultConfigureMessage() ConfigureMessage {
	return NewConfigureMessage(Filters{
		Trades: []TradeFilter{{ProgramID: String(RaydiumV4.ProgramID())}},
	})
}

// String returns a pointer to s for building sparse filters.
func String(s string) *string {
	return &s
}

// Float returns a pointer to f for building sparse filters.
func Float(f float64) *float64 {
	return &f
}

// Empty reports whether no category is present.
func (f Filters) Empty() bool {
	return len(f.Trades) == 0 && len(f.Transfers) == 0 && len(f.OraclePrices) == 0
}

// Validate checks that every address predicate is a well-formed public key
// and that fee payers are signers. It is never applied by the Client itself.
func (f Filters) Validate() error {
	var errs []error

	for i, tf := range f.Trades {
		prefix := fmt.Sprintf("trades[%d]", i)
		errs = append(errs,
			checkAddress(prefix+".tokenMintAddress", tf.TokenMintAddress),
			checkSigner(prefix+".feePayer", tf.FeePayer),
			checkAddress(prefix+".programId", tf.ProgramID),
			checkAddress(prefix+".authorityAddress", tf.AuthorityAddress),
			checkAddress(prefix+".marketId", tf.MarketID),
			checkAddress(prefix+".quoteMintAddress", tf.QuoteMintAddress),
			checkAddress(prefix+".baseMintAddress", tf.BaseMintAddress),
		)
	}

	for i, tf := range f.Transfers {
		prefix := fmt.Sprintf("transfers[%d]", i)
		errs = append(errs,
			checkSigner(prefix+".feePayer", tf.FeePayer),
			checkAddress(prefix+".programId", tf.ProgramID),
			checkAddress(prefix+".receiverAddress", tf.ReceiverAddress),
			checkAddress(prefix+".receiverTokenAccount", tf.ReceiverTokenAccount),
			checkAddress(prefix+".senderAddress", tf.SenderAddress),
			checkAddress(prefix+".senderTokenAccount", tf.SenderTokenAccount),
			checkAddress(prefix+".tokenMintAddress", tf.TokenMintAddress),
		)
		if tf.MinAmount != nil && tf.MaxAmount != nil && *tf.MinAmount > *tf.MaxAmount {
			errs = append(errs, fmt.Errorf("%s: minAmount %v exceeds maxAmount %v",
				prefix, *tf.MinAmount, *tf.MaxAmount))
		}
	}

	for i, of := range f.OraclePrices {
		prefix := fmt.Sprintf("oraclePrices[%d]", i)
		errs = append(errs,
			checkAddress(prefix+".priceFeedAccount", of.PriceFeedAccount),
			checkAddress(prefix+".productAccount", of.ProductAccount),
		)
	}

	return errors.Join(errs...)
}

func checkAddress(field string, addr *string) error {
	if addr == nil {
		return nil
	}
	if err := solana.ValidateAddress(*addr); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

func checkSigner(field string, addr *string) error {
	if addr == nil {
		return nil
	}
	if err := solana.ValidateSigner(*addr); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
