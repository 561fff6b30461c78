package vybe

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// outcome is how one attempt ended.
type outcome int

const (
	// outcomeFailed: the attempt never reached streaming.
	outcomeFailed outcome = iota
	// outcomeEnded: the stream ended by close frame or read error.
	outcomeEnded
	// outcomeShutdown: a shutdown request ended the attempt.
	outcomeShutdown
)

// frame is one result of conn.ReadMessage.
type frame struct {
	messageType int
	data        []byte
	err         error
}

// runSession drives exactly one connection attempt.
func (c *Client) runSession(ctx context.Context, target string, payload []byte, shutdown <-chan struct{}) outcome {
	id := uuid.NewString()
	n := c.attempts.Add(1)
	c.setAttemptID(id)
	c.metrics.RecordAttempt()
	c.setState(StateConnecting)
	c.logger.Printf("Connecting to %s (attempt %d, id %s)", target, n, id)

	header := http.Header{}
	header.Set(APIKeyHeader, c.cfg.APIKey)

	start := time.Now()
	conn, _, err := c.dialer.DialContext(ctx, target, header)
	if err != nil {
		c.reportError("Failed to connect", err)
		return outcomeFailed
	}
	defer conn.Close()

	c.metrics.RecordConnect(time.Since(start).Seconds())
	c.sink.OnConnect()

	c.setState(StateConfiguring)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.reportError("Failed to send configure message", err)
		return outcomeFailed
	}

	c.setState(StateStreaming)
	c.metrics.RecordStreaming(true)
	defer c.metrics.RecordStreaming(false)
	c.policy.Reset()

	frames := make(chan frame)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		readFrames(conn, frames, done)
	}()
	// The reader is released by closing the connection, then joined.
	defer func() {
		close(done)
		conn.Close()
		wg.Wait()
	}()

	for {
		select {
		case f := <-frames:
			if f.err != nil {
				c.endStream(id, f.err)
				return outcomeEnded
			}
			if f.messageType != websocket.TextMessage {
				continue
			}
			c.dispatch(f.data)

		case <-shutdown:
			return c.closeStream(conn)

		case <-ctx.Done():
			return c.closeStream(conn)
		}
	}
}

// readFrames forwards frames until a read error or done.
func readFrames(conn *websocket.Conn, out chan<- frame, done <-chan struct{}) {
	for {
		mt, data, err := conn.ReadMessage()
		select {
		case out <- frame{messageType: mt, data: data, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch decodes one text frame. A bad frame is reported and skipped.
func (c *Client) dispatch(data []byte) {
	start := time.Now()
	ev, err := DecodeEvent(data)
	if err != nil {
		c.reportError("Failed to parse message", err)
		return
	}
	c.sink.OnMessage(ev)
	c.metrics.RecordMessage(ev.Slot, time.Since(start).Seconds(), time.Now().Unix())
}

// endStream handles a remote close or a transport read error.
func (c *Client) endStream(id string, err error) {
	c.setState(StateClosing)

	if closeErr, ok := remoteClose(err); ok {
		c.metrics.RecordError(string(KindRemoteClose))
		c.logger.Printf("Connection %s closed by peer: code=%d text=%q", id, closeErr.Code, closeErr.Text)
	} else {
		c.reportError("WebSocket error", err)
	}

	c.sink.OnDisconnect()
	c.metrics.RecordDisconnect(false)
}

// remoteClose reports whether err carries a close frame sent by the peer.
// Code 1006 is synthesized locally for a dropped connection.
func remoteClose(err error) (*websocket.CloseError, bool) {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code == websocket.CloseAbnormalClosure {
		return nil, false
	}
	return closeErr, true
}

// closeStream sends a best-effort close frame after a shutdown request.
func (c *Client) closeStream(conn *websocket.Conn) outcome {
	c.setState(StateClosing)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.closeTimeout)); err != nil {
		c.reportError("Failed to close WebSocket", err)
	}

	c.sink.OnDisconnect()
	c.metrics.RecordDisconnect(true)
	return outcomeShutdown
}
