package vybe

import "errors"

// Client errors.
var (
	// ErrInvalidURI is returned when the websocket URI cannot be used.
	ErrInvalidURI = errors.New("invalid websocket uri")

	// ErrEncodeConfigure is returned when the configure message cannot be serialized.
	ErrEncodeConfigure = errors.New("encode configure message")

	// ErrDecode wraps every inbound frame that is not a valid event.
	ErrDecode = errors.New("decode event")

	// ErrAlreadyRunning is returned by Connect while another Connect is active.
	ErrAlreadyRunning = errors.New("client already running")
)

// ErrorKind classifies attempt failures.
type ErrorKind string

// Error kinds.
const (
	KindLocal       ErrorKind = "local"
	KindTransport   ErrorKind = "transport"
	KindDecode      ErrorKind = "decode"
	KindRemoteClose ErrorKind = "remote_close"
)

// Classify maps an error to its kind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidURI), errors.Is(err, ErrEncodeConfigure):
		return KindLocal
	case errors.Is(err, ErrDecode):
		return KindDecode
	}
	if _, ok := remoteClose(err); ok {
		return KindRemoteClose
	}
	return KindTransport
}
