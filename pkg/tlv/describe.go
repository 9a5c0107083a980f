package tlv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gregLibert/sim-card/pkg/bits"
	"github.com/moov-io/bertlv"
)

// WriteStructFields appends one "    - <prefix>.<Field>: <value>" line per
// populated []byte field of s, followed by any uncaught BER-TLV objects.
// Lines are newline-separated with no trailing newline; a separator is added
// when sb already holds text.
//
// The `fmt` struct tag selects the rendering: "ascii", "int" (big-endian
// integer) or "bcd" (nibble-swapped digits, 'F' filler dropped). Hex is the
// default.
func WriteStructFields(sb *strings.Builder, prefix string, s interface{}) {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}

	typ := val.Type()
	var lines []string

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		sf := typ.Field(i)

		switch {
		case isByteSlice(field):
			if field.Len() == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("    - %s.%s: %s",
				prefix, fieldLabel(sf), FormatValue(field.Bytes(), sf.Tag.Get("fmt"))))
		case field.Type() == reflect.TypeOf([]bertlv.TLV{}):
			for _, obj := range field.Interface().([]bertlv.TLV) {
				lines = append(lines, fmt.Sprintf("    - %s.Unknown Tag %s: %X", prefix, obj.Tag, valueBytes(obj)))
			}
		}
	}

	if len(lines) == 0 {
		return
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(lines, "\n"))
}

func fieldLabel(sf reflect.StructField) string {
	if tag := sf.Tag.Get("tlv"); tag != "" {
		return fmt.Sprintf("%s (%s)", sf.Name, tag)
	}
	return sf.Name
}

// FormatValue renders data per a `fmt` tag value.
func FormatValue(data []byte, format string) string {
	switch format {
	case "ascii":
		return fmt.Sprintf("%X (%q)", data, MakeSafeASCII(data))
	case "int":
		var n int
		for _, b := range data {
			n = n<<8 | int(b)
		}
		return fmt.Sprintf("%X (Dec: %d)", data, n)
	case "bcd":
		return fmt.Sprintf("%X (%s)", data, SwappedBCD(data))
	default:
		return fmt.Sprintf("%X", data)
	}
}

// SwappedBCD reads digits low nibble first, as ICCID and dialling numbers are
// stored. Filler nibbles ('F') are skipped.
func SwappedBCD(data []byte) string {
	var sb strings.Builder
	for _, n := range bits.Nibbles(data) {
		if n == 0x0F {
			continue
		}
		sb.WriteByte("0123456789*#abc"[n])
	}
	return sb.String()
}

// MakeSafeASCII replaces non-printable bytes with '.'.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
