package iso7816

import (
	"fmt"
)

// CLIENT & PROTOCOL LOGIC:
// The Client acts as a high-level driver over the physical connection.
// It implements the automatic handling of the T=0 transport behaviors a SIM
// exposes to the application layer:
//
// 1. "9F XX" (GSM) / "61 XX" (ISO), Response Available:
//    The card indicates that XX bytes are waiting. The client automatically generates
//    and sends a GET RESPONSE command to retrieve them.
//
// 2. "6C XX" (Wrong Length):
//    The card indicates that the expected length (Le) was incorrect and suggests XX.
//    The client automatically re-sends the original command with Le = XX.
//
// The Send() method returns a Trace, which is a log of all atomic transactions
// occurred to fulfill the logical request.

// maxAutoExchanges bounds the GET RESPONSE / re-send chain of a single request.
const maxAutoExchanges = 4

// Transmitter abstracts the card connection: a PC/SC reader or an emulated card.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits a command and handles protocol logic (9Fxx, 61xx, 6Cxx).
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	return c.send(cmd, 0)
}

func (c *Client) send(cmd *CommandAPDU, depth int) (Trace, error) {
	if depth > maxAutoExchanges {
		return nil, fmt.Errorf("too many chained exchanges for %s", cmd.Instruction.Raw)
	}

	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, err
	}

	trace := Trace{{Command: cmd, Response: resp}}

	sw1 := resp.Status.SW1()
	sw2 := resp.Status.SW2()

	var next *CommandAPDU
	switch {
	case resp.Status.IsResponseAvailable():
		// GET RESPONSE stays on the class of the original command.
		next = GetResponse(cmd.Class, int(sw2))
	case sw1 == 0x6C:
		retry := *cmd
		retry.Ne = int(sw2)
		next = &retry
	default:
		return trace, nil
	}

	subTrace, err := c.send(next, depth+1)
	if err != nil {
		return trace, err
	}

	return append(trace, subTrace...), nil
}
