package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the byte length of a Solana public key.
const PublicKeyLength = 32

// Address errors.
var (
	// ErrInvalidAddress is returned when an address is not base58 or not 32 bytes.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrOffCurve is returned when an address must be a signer but is not an ed25519 point.
	ErrOffCurve = errors.New("address is not on the ed25519 curve")
)

// DecodeAddress decodes a base58 address and checks its length.
func DecodeAddress(addr string) ([]byte, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	decoded, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	if len(decoded) != PublicKeyLength {
		return nil, fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidAddress, addr, len(decoded))
	}
	return decoded, nil
}

// ValidateAddress reports whether addr is a well-formed public key.
func ValidateAddress(addr string) error {
	_, err := DecodeAddress(addr)
	return err
}

// ValidateSigner checks that addr is well-formed and lies on the ed25519 curve.
// Program derived addresses are off-curve and can never sign or pay fees.
func ValidateSigner(addr string) error {
	decoded, err := DecodeAddress(addr)
	if err != nil {
		return err
	}
	if !IsOnCurve(decoded) {
		return fmt.Errorf("%w: %q", ErrOffCurve, addr)
	}
	return nil
}

// IsOnCurve reports whether point is a valid compressed ed25519 point.
func IsOnCurve(point []byte) bool {
	if len(point) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// EncodeAddress base58-encodes a raw public key.
func EncodeAddress(key []byte) string {
	return base58.Encode(key)
}
