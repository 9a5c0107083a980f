package modem

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gregLibert/sim-card/pkg/simcard"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts ...Option) (*Session, *simcard.Card) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	card, err := simcard.New(5554, 0, simcard.WithLogger(logger))
	require.NoError(t, err)
	return NewSession(card, append([]Option{WithLogger(logger)}, opts...)...), card
}

func TestExecute(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"AT", []string{"OK"}},
		{"at", []string{"OK"}},
		{"ATZ9", []string{"ERROR"}},
		{"hello", []string{"ERROR"}},
		{"AT+CPIN?", []string{"+CPIN: READY", "OK"}},
		{"AT+CRSM=192,28474,0,0,15", []string{"+CRSM: 144,0,000000806f3a040011a0aa01020120", "OK"}},
		{"at+crsm=242,1,2,3,4", []string{"+CRSM: 106,134", "OK"}},
		{"AT+CRSM=176,12258,0,0,10", []string{"+CRSM: 144,0,98101430121181157002", "OK"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, _ := newSession(t)
			assert.Equal(t, tt.want, s.Execute(tt.line))
		})
	}
}

func TestExecutePIN(t *testing.T) {
	s, card := newSession(t)
	card.SetStatus(simcard.StatusPIN)

	assert.Equal(t, []string{"+CPIN: SIM PIN", "OK"}, s.Execute("AT+CPIN?"))
	assert.Equal(t, []string{CMEIncorrectPassword}, s.Execute("AT+CPIN=1111"))
	assert.Equal(t, []string{"OK"}, s.Execute(`AT+CPIN="0000"`))
	assert.Equal(t, simcard.StatusReady, card.Status())

	card.SetStatus(simcard.StatusPIN)
	for i := 0; i < simcard.MaxPINAttempts; i++ {
		assert.Equal(t, []string{CMEIncorrectPassword}, s.Execute("AT+CPIN=9999"))
	}
	assert.Equal(t, []string{"+CPIN: SIM PUK", "OK"}, s.Execute("AT+CPIN?"))

	assert.Equal(t, []string{CMEIncorrectPassword}, s.Execute("AT+CPIN=00000000,1234"))
	assert.Equal(t, []string{"OK"}, s.Execute(`AT+CPIN="12345678","4321"`))
	assert.Equal(t, "4321", card.PIN())
	assert.Equal(t, []string{"ERROR"}, s.Execute("AT+CPIN=1,2,3"))
}

func TestExecuteAbsent(t *testing.T) {
	s, card := newSession(t)

	card.SetStatus(simcard.StatusAbsent)
	assert.Equal(t, []string{CMESIMNotInserted}, s.Execute("AT+CPIN?"))
	assert.Equal(t, []string{CMESIMNotInserted}, s.Execute("AT+CPIN=0000"))

	card.SetStatus(simcard.StatusNetworkPersonalization)
	assert.Equal(t, []string{"+CPIN: PH-NET PIN", "OK"}, s.Execute("AT+CPIN?"))
}

func TestObserver(t *testing.T) {
	var requests []string
	var responses []simcard.Response
	s, _ := newSession(t, WithObserver(func(req string, resp simcard.Response) {
		requests = append(requests, req)
		responses = append(responses, resp)
	}))

	s.Execute("AT+CRSM=176,12258,0,0,10")
	s.Execute("AT+CPIN?")
	s.Execute("at+crsm=178,28480,1,4,32")

	require.Len(t, responses, 2)
	assert.Equal(t, []string{"+CRSM=176,12258,0,0,10", "+CRSM=178,28480,1,4,32"}, requests)
	assert.True(t, responses[0].IsSuccess())
}

type pipe struct {
	io.Reader
	out bytes.Buffer
}

func (p *pipe) Write(b []byte) (int, error) { return p.out.Write(b) }

func TestServe(t *testing.T) {
	s, _ := newSession(t)
	rw := &pipe{Reader: strings.NewReader("AT\r\n\x01AT+CPIN?\rBOGUS\nAT")}

	require.NoError(t, s.Serve(context.Background(), rw))
	assert.Equal(t, "OK\r\n+CPIN: READY\r\nOK\r\nERROR\r\nOK\r\n", rw.out.String())
}

type blockingReader struct{ done chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.done
	return 0, io.EOF
}

func TestReadLoopStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	lines := readLoop(endlessLines{}, done)

	assert.Equal(t, "AT", <-lines)
	close(done)

	select {
	case <-drain(lines):
	case <-time.After(time.Second):
		t.Fatal("read loop still running after done")
	}
}

type endlessLines struct{}

func (endlessLines) Read(b []byte) (int, error) {
	return copy(b, "AT\r\n"), nil
}

// drain reports when lines is closed.
func drain(lines <-chan string) <-chan struct{} {
	closed := make(chan struct{})
	go func() {
		for range lines {
		}
		close(closed)
	}()
	return closed
}

func TestServeCancel(t *testing.T) {
	s, _ := newSession(t)
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Serve(ctx, &pipe{Reader: r})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
