package iso7816

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/sim-card/pkg/tlv"
)

// scriptedCard answers each command with the response registered for its hex form.
type scriptedCard struct {
	answers map[string][]byte
	sent    []string
}

func (s *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	key := strings.ToUpper(hex.EncodeToString(cmd))
	s.sent = append(s.sent, key)
	resp, ok := s.answers[key]
	if !ok {
		return nil, errors.New("unexpected command " + key)
	}
	return resp, nil
}

func TestClient_Send_GetResponse(t *testing.T) {
	card := &scriptedCard{answers: map[string][]byte{
		"A0A40000022FE2": tlv.Hex("9F0F"),
		"A0C000000F":     tlv.Hex("0000000a2fe204000fa0aa01020000 9000"),
	}}

	trace, err := NewClient(card).Send(Select(ClassGSM, 0x2FE2))
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if diff := cmp.Diff([]string{"A0A40000022FE2", "A0C000000F"}, card.sent); diff != "" {
		t.Errorf("sent mismatch (-want +got):\n%s", diff)
	}
	if len(trace) != 2 || !trace.IsSuccess() {
		t.Fatalf("unexpected trace: %+v", trace)
	}
	if got := hex.EncodeToString(trace.Data()); got != "0000000a2fe204000fa0aa01020000" {
		t.Errorf("Data() = %s", got)
	}
}

func TestClient_Send_WrongLength(t *testing.T) {
	card := &scriptedCard{answers: map[string][]byte{
		"A0B0000010": tlv.Hex("6C06"),
		"A0B0000006": tlv.Hex("b000fffff000 9000"),
	}}

	trace, err := NewClient(card).Send(ReadBinary(ClassGSM, 0, 16))
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(trace) != 2 || trace.Last().Command.Ne != 6 {
		t.Errorf("expected a re-send with Le=6, got %+v", trace)
	}
}

func TestClient_Send_TransmitError(t *testing.T) {
	card := &scriptedCard{answers: map[string][]byte{}}

	if _, err := NewClient(card).Send(GetResponse(ClassGSM, 15)); err == nil {
		t.Error("expected transmission error")
	}
}

func TestClient_Send_Loop(t *testing.T) {
	card := &scriptedCard{answers: map[string][]byte{
		"A0C000000F": tlv.Hex("9F0F"),
	}}

	if _, err := NewClient(card).Send(GetResponse(ClassGSM, 15)); err == nil {
		t.Error("expected an error for an endless GET RESPONSE chain")
	}
}
