package iso7816

import (
	"fmt"
)

// SIM COMMAND BUILDERS (GSM 11.11 §9.2):
//
// SELECT      A0 A4 00 00 02 <file id>         -> '9F XX' then GET RESPONSE
// READ BINARY A0 B0 <offset hi> <offset lo> <Le>
// READ RECORD A0 B2 <record> <mode> <Le>
// GET RESPONSE A0 C0 00 00 <Le>
// VERIFY CHV  A0 20 00 <chv> 08 <PIN padded with FF>
// UNBLOCK CHV A0 2C 00 <chv'> 10 <PUK> <new PIN padded with FF>

// RecordMode is the P2 of READ RECORD.
type RecordMode byte

const (
	RecordNext     RecordMode = 0x02
	RecordPrevious RecordMode = 0x03
	// RecordAbsolute reads the record whose number is P1 (P1=0 means current).
	RecordAbsolute RecordMode = 0x04
)

func (m RecordMode) String() string {
	switch m {
	case RecordNext:
		return "Next Record"
	case RecordPrevious:
		return "Previous Record"
	case RecordAbsolute:
		return "Absolute/Current"
	default:
		return fmt.Sprintf("Unknown Mode (0x%02X)", byte(m))
	}
}

// CHVLength is the size of a CHV field; shorter codes are padded with 0xFF.
const CHVLength = 8

func newCommand(cla Class, code InsCode, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	ins, _ := NewInstruction(code)
	return NewCommandAPDU(cla, ins, p1, p2, data, ne)
}

// Select creates a SELECT command for a 2-byte file identifier.
func Select(cla Class, fileID uint16) *CommandAPDU {
	return newCommand(cla, INS_SELECT, 0x00, 0x00, []byte{byte(fileID >> 8), byte(fileID)}, 0)
}

// ReadBinary reads le bytes of the selected transparent file, starting at offset.
func ReadBinary(cla Class, offset uint16, le int) *CommandAPDU {
	return newCommand(cla, INS_READ_BINARY, byte(offset>>8), byte(offset), nil, le)
}

// ReadRecord reads record number `record` of the selected record file (absolute mode).
func ReadRecord(cla Class, record byte, le int) *CommandAPDU {
	return NewReadRecordCommand(cla, record, RecordAbsolute, le)
}

// NewReadRecordCommand creates a raw READ RECORD command.
func NewReadRecordCommand(cla Class, p1 byte, mode RecordMode, le int) *CommandAPDU {
	return newCommand(cla, INS_READ_RECORD, p1, byte(mode), nil, le)
}

// GetResponse fetches le bytes of pending response data.
func GetResponse(cla Class, le int) *CommandAPDU {
	return newCommand(cla, INS_GET_RESPONSE, 0x00, 0x00, nil, le)
}

// VerifyCHV presents a PIN for CHV number chv (1 or 2).
func VerifyCHV(cla Class, chv byte, pin string) *CommandAPDU {
	return newCommand(cla, INS_VERIFY_CHV, 0x00, chv, PadCHV(pin), 0)
}

// UnblockCHV presents the unblock key and the new PIN. CHV1 is referenced as 00.
func UnblockCHV(cla Class, chv byte, puk, newPIN string) *CommandAPDU {
	if chv == 1 {
		chv = 0
	}
	data := append(PadCHV(puk), PadCHV(newPIN)...)
	return newCommand(cla, INS_UNBLOCK_CHV, 0x00, chv, data, 0)
}

// PadCHV encodes a code as 8 ASCII bytes padded with 0xFF.
func PadCHV(code string) []byte {
	out := make([]byte, CHVLength)
	for i := range out {
		out[i] = 0xFF
	}
	copy(out, code)
	return out
}

// UnpadCHV strips the 0xFF padding of a CHV field.
func UnpadCHV(field []byte) string {
	for i, b := range field {
		if b == 0xFF {
			return string(field[:i])
		}
	}
	return string(field)
}
