package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Padding is the filler byte of unused EF space.
const Padding = 0xFF

// Hex builds a byte slice from hex fragments. Spaces are ignored so APDUs can
// be written as "A0 A4 00 00 02 6F 07". It panics on malformed input and is
// meant for literals.
func Hex(parts ...string) []byte {
	clean := strings.ReplaceAll(strings.Join(parts, ""), " ", "")

	data, err := hex.DecodeString(clean)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", clean, err))
	}
	return data
}

// Extent returns the length of the BER-TLV objects at the start of data,
// stopping where an 'FF' filler byte takes the place of a tag. Malformed
// input yields len(data) so the decoder reports it.
func Extent(data []byte) int {
	i := 0
	for i < len(data) && data[i] != Padding {
		j := i + 1
		if data[i]&0x1F == 0x1F {
			for j < len(data) && data[j]&0x80 != 0 {
				j++
			}
			j++
		}
		if j >= len(data) {
			return len(data)
		}

		length := int(data[j])
		j++
		if length&0x80 != 0 {
			n := length & 0x7F
			if j+n > len(data) {
				return len(data)
			}
			length = 0
			for _, b := range data[j : j+n] {
				length = length<<8 | int(b)
			}
			j += n
		}

		j += length
		if j > len(data) {
			return len(data)
		}
		i = j
	}
	return i
}
