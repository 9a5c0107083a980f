package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/tlv"
)

// Describe generates an ASCII-formatted report of a logical exchange: the initial
// request, the transport auto-handling steps, and the final data.
func Describe(t Trace) string {
	var sb strings.Builder

	if len(t) == 0 {
		return "=== EMPTY TRACE ==="
	}

	tx0 := t[0]
	cmd := tx0.Command

	sb.WriteString(fmt.Sprintf("=== %s REPORT ===\n", strings.TrimPrefix(cmd.Instruction.Raw.String(), "INS_")))
	sb.WriteString(fmt.Sprintf("[1] Command: %X\n", mustBytes(cmd)))
	sb.WriteString(describeParameters(cmd))

	if tx0.Response != nil {
		sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(tx0.Response.Status)))
	}
	sb.WriteString("\n")

	lastTx := t.Last()

	if len(t) > 1 {
		sb.WriteString(fmt.Sprintf("[2] Protocol: Auto-handling (%d steps)\n", len(t)))
		for _, tx := range t[1:] {
			sb.WriteString(fmt.Sprintf("    + %s\n", tx.Command.Instruction.Raw))
		}
		if lastTx.Response != nil {
			sb.WriteString(fmt.Sprintf("    + Final SW: [%04X]\n", uint16(lastTx.Response.Status)))
		}
	}

	sb.WriteString("[=] DATA OUTCOME:\n")
	if data := t.Data(); len(data) > 0 {
		sb.WriteString(fmt.Sprintf("    + Length: %d bytes\n", len(data)))
		sb.WriteString(fmt.Sprintf("    + Dump:   %X\n", data))
		sb.WriteString(fmt.Sprintf("    + ASCII:  %q\n", tlv.MakeSafeASCII(data)))
	} else {
		sb.WriteString("    - No Data Received.\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func describeParameters(cmd *CommandAPDU) string {
	switch cmd.Instruction.Raw {
	case INS_SELECT:
		return fmt.Sprintf("    + File:    %X\n", cmd.Data)
	case INS_READ_RECORD:
		mode := RecordMode(cmd.P2)
		return fmt.Sprintf("    + Record:  %d (%s), Le=%d\n", cmd.P1, mode, cmd.Ne)
	case INS_READ_BINARY:
		return fmt.Sprintf("    + Offset:  %d, Le=%d\n", int(cmd.P1)<<8|int(cmd.P2), cmd.Ne)
	default:
		return fmt.Sprintf("    + P1/P2:   %02X %02X\n", cmd.P1, cmd.P2)
	}
}

func describeStatus(sw StatusWord) string {
	swHex := fmt.Sprintf("%02X %02X", sw.SW1(), sw.SW2())
	switch {
	case sw == SW_NO_ERROR:
		return fmt.Sprintf("[%s] [OK] SW_NO_ERROR", swHex)
	case sw.IsResponseAvailable():
		return fmt.Sprintf("[%s] [OK] %d bytes still available", swHex, sw.SW2())
	default:
		return fmt.Sprintf("[%s] [!!] %s", swHex, sw.Verbose())
	}
}

func mustBytes(cmd *CommandAPDU) []byte {
	raw, err := cmd.Bytes()
	if err != nil {
		return nil
	}
	return raw
}
