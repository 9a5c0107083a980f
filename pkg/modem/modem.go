// Package modem serves the SIM related AT commands of a virtual modem over a
// line oriented stream.
package modem

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gregLibert/sim-card/pkg/simcard"
	"github.com/sirupsen/logrus"
)

const readBufferSize = 1024

// Final and error result codes.
const (
	ResultOK    = "OK"
	ResultError = "ERROR"

	// CME error 10: SIM not inserted.
	CMESIMNotInserted = "+CME ERROR: 10"
	// CME error 16: incorrect password.
	CMEIncorrectPassword = "+CME ERROR: 16"
)

// Observer is called after every +CRSM exchange.
type Observer func(request string, resp simcard.Response)

// Session answers AT commands for one card.
type Session struct {
	card     *simcard.Card
	log      *logrus.Entry
	observer Observer
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		s.log = l.WithField("instance", s.card.Instance())
	}
}

// WithObserver registers fn for +CRSM exchanges.
func WithObserver(fn Observer) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// NewSession creates a session for card.
func NewSession(card *simcard.Card, opts ...Option) *Session {
	s := &Session{card: card}
	s.log = logrus.StandardLogger().WithField("instance", card.Instance())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs one command line and returns the response lines, final
// result code included. Empty lines produce no output.
func (s *Session) Execute(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if len(line) < 2 || !strings.EqualFold(line[:2], "AT") {
		return []string{ResultError}
	}

	cmd := line[2:]
	upper := strings.ToUpper(cmd)
	switch {
	case cmd == "":
		return []string{ResultOK}
	case strings.HasPrefix(upper, simcard.CommandPrefix):
		return s.crsm(simcard.CommandPrefix + cmd[len(simcard.CommandPrefix):])
	case upper == "+CPIN?":
		return s.pinStatus()
	case strings.HasPrefix(upper, "+CPIN="):
		return s.enterPIN(cmd[len("+CPIN="):])
	default:
		return []string{ResultError}
	}
}

func (s *Session) crsm(request string) []string {
	resp := s.card.Handle(request)
	if s.observer != nil {
		s.observer(request, resp)
	}
	return []string{resp.String(), ResultOK}
}

func (s *Session) pinStatus() []string {
	var code string
	switch s.card.Status() {
	case simcard.StatusReady:
		code = "READY"
	case simcard.StatusPIN:
		code = "SIM PIN"
	case simcard.StatusPUK:
		code = "SIM PUK"
	case simcard.StatusNetworkPersonalization:
		code = "PH-NET PIN"
	default:
		return []string{CMESIMNotInserted}
	}
	return []string{"+CPIN: " + code, ResultOK}
}

func (s *Session) enterPIN(args string) []string {
	switch s.card.Status() {
	case simcard.StatusAbsent, simcard.StatusNotReady:
		return []string{CMESIMNotInserted}
	}

	params := strings.Split(args, ",")
	for i, p := range params {
		params[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}

	var ok bool
	switch len(params) {
	case 1:
		ok = s.card.CheckPIN(params[0])
	case 2:
		ok = s.card.CheckPUK(params[0], params[1])
	default:
		return []string{ResultError}
	}

	if !ok {
		return []string{CMEIncorrectPassword}
	}
	return []string{ResultOK}
}

// Serve reads command lines from rw and writes the responses, each line
// terminated by CR LF. It returns nil at end of input and ctx.Err() when
// the context is cancelled.
func (s *Session) Serve(ctx context.Context, rw io.ReadWriter) error {
	done := make(chan struct{})
	defer close(done)

	lines := readLoop(rw, done)
	s.log.Debug("session started")
	defer s.log.Debug("session ended")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, valid := <-lines:
			if !valid {
				return nil
			}
			responses := s.Execute(line)
			s.log.WithFields(logrus.Fields{"rx": line, "tx": responses}).Debug("command")
			for _, r := range responses {
				if _, err := fmt.Fprintf(rw, "%s\r\n", r); err != nil {
					return fmt.Errorf("write response: %w", err)
				}
			}
		}
	}
}

// readLoop splits r into lines on CR or LF. Control characters are dropped.
// The channel is closed when r fails or reaches EOF, or once done is closed.
// A Read in progress when done closes is not interrupted.
func readLoop(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string, 1)
	send := func(line string) bool {
		select {
		case lines <- line:
			return true
		case <-done:
			return false
		}
	}

	go func() {
		defer close(lines)
		buf := make([]byte, readBufferSize)
		current := make([]byte, 0, readBufferSize)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				switch {
				case b == '\n' || b == '\r':
					if len(current) == 0 {
						continue
					}
					if !send(string(current)) {
						return
					}
					current = current[:0]
				case b < ' ':
					continue
				default:
					current = append(current, b)
				}
			}
			if err != nil {
				if len(current) > 0 {
					send(string(current))
				}
				return
			}
		}
	}()
	return lines
}
