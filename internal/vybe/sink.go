package vybe

import "log"

// Sink receives the outcome of every attempt. Methods are called from the
// goroutine running Connect, one at a time, in event order.
type Sink interface {
	OnMessage(ev Event)
	OnConnect()
	OnDisconnect()
	OnError(msg string)
}

// LogSink is the default Sink. It only logs.
type LogSink struct {
	Logger *log.Logger
}

// NewLogSink creates a LogSink, falling back to log.Default().
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// OnMessage logs a one-line trade summary.
func (s *LogSink) OnMessage(ev Event) {
	s.logger().Printf("Trade: %s tokens for %s USDC at price %s, signature: %s",
		ev.BaseSize, ev.QuoteSize, ev.Price, ev.Signature)
}

// OnConnect logs the connection.
func (s *LogSink) OnConnect() {
	s.logger().Println("Connected to WebSocket")
}

// OnDisconnect logs the disconnection.
func (s *LogSink) OnDisconnect() {
	s.logger().Println("Disconnected from WebSocket")
}

// OnError logs msg.
func (s *LogSink) OnError(msg string) {
	s.logger().Printf("WebSocket error: %s", msg)
}

// Funcs adapts plain functions to a Sink. Nil fields fall back to Fallback.
// A Client fills a nil Fallback with a LogSink on its own logger; used
// standalone it logs to log.Default().
type Funcs struct {
	Message    func(Event)
	Connect    func()
	Disconnect func()
	Error      func(string)
	Fallback   Sink
}

func (f Funcs) fallback() Sink {
	if f.Fallback != nil {
		return f.Fallback
	}
	return NewLogSink(nil)
}

// OnMessage implements Sink.
func (f Funcs) OnMessage(ev Event) {
	if f.Message == nil {
		f.fallback().OnMessage(ev)
		return
	}
	f.Message(ev)
}

// OnConnect implements Sink.
func (f Funcs) OnConnect() {
	if f.Connect == nil {
		f.fallback().OnConnect()
		return
	}
	f.Connect()
}

// OnDisconnect implements Sink.
func (f Funcs) OnDisconnect() {
	if f.Disconnect == nil {
		f.fallback().OnDisconnect()
		return
	}
	f.Disconnect()
}

// OnError implements Sink.
func (f Funcs) OnError(msg string) {
	if f.Error == nil {
		f.fallback().OnError(msg)
		return
	}
	f.Error(msg)
}

// withLogger resolves a nil sink, or a Funcs without Fallback, to a LogSink
// on logger.
func withLogger(sink Sink, logger *log.Logger) Sink {
	switch f := sink.(type) {
	case nil:
		return NewLogSink(logger)
	case Funcs:
		if f.Fallback == nil {
			f.Fallback = NewLogSink(logger)
		}
		return f
	case *Funcs:
		if f != nil && f.Fallback == nil {
			cp := *f
			cp.Fallback = NewLogSink(logger)
			return cp
		}
	}
	return sink
}

type multiSink []Sink

// MultiSink fans every call out to sinks in order. Nil sinks are skipped.
func MultiSink(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) OnMessage(ev Event) {
	for _, s := range m {
		s.OnMessage(ev)
	}
}

func (m multiSink) OnConnect() {
	for _, s := range m {
		s.OnConnect()
	}
}

func (m multiSink) OnDisconnect() {
	for _, s := range m {
		s.OnDisconnect()
	}
}

func (m multiSink) OnError(msg string) {
	for _, s := range m {
		s.OnError(msg)
	}
}
