package simfile

import (
	"fmt"
	"strings"

	"github.com/warthog618/sms/encoding/ucs2"
)

// Alpha identifier coding schemes (TS 51.011 Annex B).
const (
	alphaUCS2       = 0x80 // UCS2 big-endian characters
	alphaUCS2Base8  = 0x81 // length, base pointer bits 15-8, then 8-bit offsets
	alphaUCS2Base16 = 0x82 // length, 16-bit base, then 8-bit offsets
)

// DecodeAlpha decodes the alpha identifier of a dialling number or name
// record. 'FF' filler ends the text.
func DecodeAlpha(data []byte) (string, error) {
	if len(data) == 0 || data[0] == 0xFF {
		return "", nil
	}

	switch data[0] {
	case alphaUCS2:
		return decodeUCS2(data[1:])
	case alphaUCS2Base8:
		if len(data) < 3 {
			return "", fmt.Errorf("alpha 81: %d bytes", len(data))
		}
		return decodeBased(rune(data[2])<<7, int(data[1]), data[3:])
	case alphaUCS2Base16:
		if len(data) < 4 {
			return "", fmt.Errorf("alpha 82: %d bytes", len(data))
		}
		return decodeBased(rune(data[2])<<8|rune(data[3]), int(data[1]), data[4:])
	default:
		return DecodeGSM(data)
	}
}

func decodeUCS2(data []byte) (string, error) {
	end := len(data) &^ 1
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0xFF && data[i+1] == 0xFF {
			end = i
			break
		}
	}

	runes, err := ucs2.Decode(data[:end])
	if err != nil {
		return "", fmt.Errorf("alpha 80: %w", err)
	}
	return string(runes), nil
}

// decodeBased expands n characters: values below 0x80 are GSM default
// alphabet, others are base + the low 7 bits.
func decodeBased(base rune, n int, chars []byte) (string, error) {
	if n > len(chars) {
		return "", fmt.Errorf("alpha: %d characters announced, %d present", n, len(chars))
	}

	var sb strings.Builder
	for _, c := range chars[:n] {
		if c&0x80 != 0 {
			sb.WriteRune(base + rune(c&0x7F))
			continue
		}
		text, err := DecodeGSM([]byte{c})
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
