// Package bits holds the small bit and nibble helpers shared by the status
// word, class byte and BCD decoding code.
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// Set returns b with bit n set.
func Set(b byte, n uint) byte {
	return b | Bit(n)
}

// High returns the upper nibble of b.
func High(b byte) byte {
	return b >> 4
}

// Low returns the lower nibble of b.
func Low(b byte) byte {
	return b & 0x0F
}

// Swap exchanges the two nibbles of b, as used by the swapped-BCD fields
// of SIM files (ICCID, dialing numbers, PLMN ids).
func Swap(b byte) byte {
	return b<<4 | b>>4
}

// Nibbles returns the lower then the upper nibble of every byte in data,
// in transmission order.
func Nibbles(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, Low(b), High(b))
	}
	return out
}
