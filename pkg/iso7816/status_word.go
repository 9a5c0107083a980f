package iso7816

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gregLibert/sim-card/pkg/bits"
)

// Dynamic Status Word Logic:
//
// While most Status Words (SW) are static 2-byte values (e.g., 0x9000), ISO 7816-4 and
// GSM 11.11 define ranges where SW2 carries contextual information:
//
// 1. '9FXX' (GSM) and '61XX' (ISO): Process Completed, Response Available.
//    XX indicates the number of bytes available for retrieval (GET RESPONSE).
//
// 2. '6CXX' (SW1=0x6C): Wrong Length.
//    XX indicates the correct expected length (Le) for the command.
//
// 3. '63CX' (Warning): Counter Management.
//    If the upper nibble of SW2 is 'C' (0xC0-0xCF), the lower nibble represents
//    a counter value (e.g., remaining PIN retries).

// StatusWord represents the two-byte status response (SW1-SW2) returned by the smart card.
type StatusWord uint16

// NewStatusWord creates a StatusWord instance from two separate bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsCounter checks if the status indicates a non-volatile memory change counter.
func (sw StatusWord) IsCounter() bool {
	if sw.SW1() != 0x63 {
		return false
	}
	return bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// IsResponseAvailable reports whether data waits for a GET RESPONSE (9FXX or 61XX).
func (sw StatusWord) IsResponseAvailable() bool {
	sw1 := sw.SW1()
	return sw1 == 0x9F || sw1 == 0x61
}

// IsSuccess returns true if the command was processed successfully (9000) or
// if data is available (9FXX, 61XX).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.IsResponseAvailable()
}

// IsWarning returns true if the status indicates a warning (62XX or 63XX).
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError returns true if the status indicates an execution or checking error
// (64XX to 6FXX, and the GSM 94XX/98XX ranges).
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return (sw1 >= 0x64 && sw1 <= 0x6F) || sw1 == 0x94 || sw1 == 0x98
}

// CRSM renders the status word the way the "+CRSM" AT command reports it:
// SW1 and SW2 in decimal, separated by a comma.
func (sw StatusWord) CRSM() string {
	return strconv.Itoa(int(sw.SW1())) + "," + strconv.Itoa(int(sw.SW2()))
}

// ParseCRSMStatus is the inverse of CRSM.
func ParseCRSMStatus(s string) (StatusWord, error) {
	sw1Text, sw2Text, found := strings.Cut(s, ",")
	if !found {
		return 0, fmt.Errorf("invalid status %q: missing SW2", s)
	}
	sw1, err := strconv.ParseUint(strings.TrimSpace(sw1Text), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid SW1 %q: %w", sw1Text, err)
	}
	sw2, err := strconv.ParseUint(strings.TrimSpace(sw2Text), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid SW2 %q: %w", sw2Text, err)
	}
	return NewStatusWord(byte(sw1), byte(sw2)), nil
}

// String returns the constant name of a known status word.
func (sw StatusWord) String() string {
	if name, ok := statusWordNames[sw]; ok {
		return name
	}
	return fmt.Sprintf("StatusWord(%04X)", uint16(sw))
}

// Verbose returns a human-readable description of the status word.
// It prioritizes dynamic definitions over the constant names.
func (sw StatusWord) Verbose() string {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	if sw.IsCounter() {
		return fmt.Sprintf("Warning: State changed, counter = %d", bits.GetRange(sw2, 4, 1))
	}

	if sw.IsResponseAvailable() {
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	}

	if sw1 == 0x6C {
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}

	if name, ok := statusWordNames[sw]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), name)
	}

	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x67:
		return "Checking Error: Wrong length"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	case 0x94:
		return "Referencing Error"
	case 0x98:
		return "Security Error"
	default:
		return "Unknown Status"
	}
}

// Status Word codes returned by a SIM (ISO/IEC 7816-4, TS 102.221 §10.2.1, GSM 11.11 §9.4).
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_ERR_EXEC_NO_INFO StatusWord = 0x6400

	SW_ERR_WRONG_LENGTH StatusWord = 0x6700

	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_AUTH_METHOD_BLOCKED     StatusWord = 0x6983

	SW_ERR_FUNC_NOT_SUPPORTED    StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND        StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND      StatusWord = 0x6A83
	SW_ERR_INCORRECT_PARAMS_P1P2 StatusWord = 0x6A86

	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00

	// GSM 11.11 specific codes.
	SW_GSM_NO_EF_SELECTED      StatusWord = 0x9400
	SW_GSM_ACCESS_NOT_FULFILED StatusWord = 0x9804
	SW_GSM_CHV_BLOCKED         StatusWord = 0x9840
)

var statusWordNames = map[StatusWord]string{
	SW_NO_ERROR:                    "SW_NO_ERROR",
	SW_ERR_EXEC_NO_INFO:            "SW_ERR_EXEC_NO_INFO",
	SW_ERR_WRONG_LENGTH:            "SW_ERR_WRONG_LENGTH",
	SW_ERR_SECURITY_STATUS_NOT_SAT: "SW_ERR_SECURITY_STATUS_NOT_SAT",
	SW_ERR_AUTH_METHOD_BLOCKED:     "SW_ERR_AUTH_METHOD_BLOCKED",
	SW_ERR_FUNC_NOT_SUPPORTED:      "SW_ERR_FUNC_NOT_SUPPORTED",
	SW_ERR_FILE_NOT_FOUND:          "SW_ERR_FILE_NOT_FOUND",
	SW_ERR_RECORD_NOT_FOUND:        "SW_ERR_RECORD_NOT_FOUND",
	SW_ERR_INCORRECT_PARAMS_P1P2:   "SW_ERR_INCORRECT_PARAMS_P1P2",
	SW_ERR_WRONG_P1P2:              "SW_ERR_WRONG_P1P2",
	SW_ERR_INS_INVALID:             "SW_ERR_INS_INVALID",
	SW_ERR_CLA_NOT_SUPPORTED:       "SW_ERR_CLA_NOT_SUPPORTED",
	SW_ERR_UNKNOWN:                 "SW_ERR_UNKNOWN",
	SW_GSM_NO_EF_SELECTED:          "SW_GSM_NO_EF_SELECTED",
	SW_GSM_ACCESS_NOT_FULFILED:     "SW_GSM_ACCESS_NOT_FULFILED",
	SW_GSM_CHV_BLOCKED:             "SW_GSM_CHV_BLOCKED",
}
