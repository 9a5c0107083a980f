package iso7816

import (
	"fmt"
)

// Instruction Byte (INS) Logic according to ISO/IEC 7816-4 and GSM 11.11 §9.2.
//
// The INS byte identifies the command to be performed by the card. The "+CRSM"
// AT command carries it as a decimal number (176 = READ BINARY, 178 = READ RECORD,
// 192 = GET RESPONSE, ...).
//
// INS values where the upper nibble is '6' or '9' (0x6X or 0x9X) are invalid:
// these values are reserved for Status Words (SW1) and transport procedures.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes understood by a GSM SIM.
const (
	INS_VERIFY_CHV        InsCode = 0x20
	INS_CHANGE_CHV        InsCode = 0x24
	INS_DISABLE_CHV       InsCode = 0x26
	INS_ENABLE_CHV        InsCode = 0x28
	INS_UNBLOCK_CHV       InsCode = 0x2C
	INS_INVALIDATE        InsCode = 0x04
	INS_REHABILITATE      InsCode = 0x44
	INS_RUN_GSM_ALGORITHM InsCode = 0x88
	INS_SEEK              InsCode = 0xA2
	INS_SELECT            InsCode = 0xA4
	INS_READ_BINARY       InsCode = 0xB0
	INS_READ_RECORD       InsCode = 0xB2
	INS_GET_RESPONSE      InsCode = 0xC0
	INS_ENVELOPE          InsCode = 0xC2
	INS_FETCH             InsCode = 0x12
	INS_TERMINAL_RESPONSE InsCode = 0x14
	INS_TERMINAL_PROFILE  InsCode = 0x10
	INS_STATUS            InsCode = 0xF2
	INS_UPDATE_BINARY     InsCode = 0xD6
	INS_UPDATE_RECORD     InsCode = 0xDC
	INS_INCREASE          InsCode = 0x32
	INS_SLEEP             InsCode = 0xFA
	INS_MANAGE_CHANNEL    InsCode = 0x70
)

var insCodeNames = map[InsCode]string{
	INS_VERIFY_CHV:        "INS_VERIFY_CHV",
	INS_CHANGE_CHV:        "INS_CHANGE_CHV",
	INS_DISABLE_CHV:       "INS_DISABLE_CHV",
	INS_ENABLE_CHV:        "INS_ENABLE_CHV",
	INS_UNBLOCK_CHV:       "INS_UNBLOCK_CHV",
	INS_INVALIDATE:        "INS_INVALIDATE",
	INS_REHABILITATE:      "INS_REHABILITATE",
	INS_RUN_GSM_ALGORITHM: "INS_RUN_GSM_ALGORITHM",
	INS_SEEK:              "INS_SEEK",
	INS_SELECT:            "INS_SELECT",
	INS_READ_BINARY:       "INS_READ_BINARY",
	INS_READ_RECORD:       "INS_READ_RECORD",
	INS_GET_RESPONSE:      "INS_GET_RESPONSE",
	INS_ENVELOPE:          "INS_ENVELOPE",
	INS_FETCH:             "INS_FETCH",
	INS_TERMINAL_RESPONSE: "INS_TERMINAL_RESPONSE",
	INS_TERMINAL_PROFILE:  "INS_TERMINAL_PROFILE",
	INS_STATUS:            "INS_STATUS",
	INS_UPDATE_BINARY:     "INS_UPDATE_BINARY",
	INS_UPDATE_RECORD:     "INS_UPDATE_RECORD",
	INS_INCREASE:          "INS_INCREASE",
	INS_SLEEP:             "INS_SLEEP",
	INS_MANAGE_CHANNEL:    "INS_MANAGE_CHANNEL",
}

func (i InsCode) String() string {
	if name, ok := insCodeNames[i]; ok {
		return name
	}
	return fmt.Sprintf("InsCode(0x%02X)", byte(i))
}

// Instruction represents a validated instruction byte.
type Instruction struct {
	Raw InsCode
}

// NewInstruction creates an Instruction object with validation.
// It rejects '6X' and '9X' values as they are invalid according to ISO 7816-3.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{Raw: ins}, nil
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	return fmt.Sprintf("INS: 0x%02X (%d) | Command: %s", byte(i.Raw), byte(i.Raw), i.Raw.String())
}
