package vybe

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(log.New(&buf, "", 0))

	sink.OnConnect()
	sink.OnMessage(Event{BaseSize: "10", QuoteSize: "12.3", Price: "1.23", Signature: "sig1"})
	sink.OnError("boom")
	sink.OnDisconnect()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Connected to WebSocket",
		"Trade: 10 tokens for 12.3 USDC at price 1.23, signature: sig1",
		"WebSocket error: boom",
		"Disconnected from WebSocket",
	}, lines)
}

func TestFuncs_Fallback(t *testing.T) {
	rec := newRecorder()
	var got []string
	sink := Funcs{
		Message:  func(ev Event) { got = append(got, "msg:"+ev.Signature) },
		Error:    func(msg string) { got = append(got, "err:"+msg) },
		Fallback: rec,
	}

	sink.OnConnect()
	sink.OnMessage(Event{Signature: "s"})
	sink.OnError("x")
	sink.OnDisconnect()

	assert.Equal(t, []string{"msg:s", "err:x"}, got)
	assert.Equal(t, []string{"connect", "disconnect"}, rec.Calls())
}

func TestMultiSink(t *testing.T) {
	a, b := newRecorder(), newRecorder()
	sink := MultiSink(a, nil, b)

	sink.OnConnect()
	sink.OnMessage(Event{Signature: "s"})
	sink.OnError("e")
	sink.OnDisconnect()

	want := []string{"connect", "message", "error", "disconnect"}
	assert.Equal(t, want, a.Calls())
	assert.Equal(t, want, b.Calls())
	assert.Equal(t, []string{"e"}, b.Errors())
}
