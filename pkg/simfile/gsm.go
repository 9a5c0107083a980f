package simfile

import (
	"fmt"

	"github.com/warthog618/sms/encoding/gsm7"
)

// DecodeGSM decodes unpacked GSM 03.38 septets, one per byte. Decoding stops
// at the first 'FF' filler byte.
func DecodeGSM(septets []byte) (string, error) {
	end := len(septets)
	for i, c := range septets {
		if c == 0xFF {
			end = i
			break
		}
	}

	src := make([]byte, end)
	for i, c := range septets[:end] {
		src[i] = c & 0x7F
	}

	d := gsm7.NewDecoder()
	text, err := d.Decode(src)
	if err != nil {
		return "", fmt.Errorf("gsm7: %w", err)
	}
	return string(text), nil
}

// Unpack7 expands packed 7-bit data into one septet per byte. spare is the
// number of unused bits at the end of the last octet.
func Unpack7(packed []byte, spare int) []byte {
	total := len(packed)*8 - spare
	if total < 7 {
		return nil
	}

	septets := gsm7.Unpack7Bit(packed, 0)
	if n := total / 7; n < len(septets) {
		septets = septets[:n]
	}
	return septets
}
