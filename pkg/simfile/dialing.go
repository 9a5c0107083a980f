package simfile

import (
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/tlv"
)

// dialingTrailer is the fixed part after the alpha identifier of an
// EF_ADN-like record: BCD length, TON/NPI, 10 BCD bytes, CCP, extension.
const dialingTrailer = 14

const tonInternational = 0x10

// DialingNumber is an EF_ADN, EF_MSISDN or EF_MBDN record.
type DialingNumber struct {
	Alpha  string
	TONNPI byte
	Number string
	CCP    byte
	Ext    byte
}

// ParseDialingNumber decodes one record.
func ParseDialingNumber(record []byte) (*DialingNumber, error) {
	if len(record) < dialingTrailer {
		return nil, fmt.Errorf("dialling number record too short: %d bytes", len(record))
	}

	alphaLen := len(record) - dialingTrailer
	alpha, err := DecodeAlpha(record[:alphaLen])
	if err != nil {
		return nil, err
	}

	t := record[alphaLen:]
	dn := &DialingNumber{Alpha: alpha, CCP: t[12], Ext: t[13]}

	bcdLen := int(t[0])
	if bcdLen == 0xFF || bcdLen == 0 {
		return dn, nil
	}
	if bcdLen > 11 {
		return nil, fmt.Errorf("dialling number length %d exceeds 11", bcdLen)
	}

	dn.TONNPI = t[1]
	dn.Number = tlv.SwappedBCD(t[2 : 1+bcdLen])
	return dn, nil
}

// Dialable returns the number with a leading '+' for international numbers.
func (d *DialingNumber) Dialable() string {
	if d.Number != "" && d.TONNPI&0x70 == tonInternational {
		return "+" + d.Number
	}
	return d.Number
}

// Describe renders the record.
func (d *DialingNumber) Describe(prefix string) string {
	var sb strings.Builder
	if d.Number == "" && d.Alpha == "" {
		sb.WriteString(fmt.Sprintf("    - %s: empty", prefix))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("    - %s.Alpha: %q\n", prefix, d.Alpha))
	sb.WriteString(fmt.Sprintf("    - %s.TON/NPI: %02X\n", prefix, d.TONNPI))
	sb.WriteString(fmt.Sprintf("    - %s.Number: %s", prefix, d.Dialable()))
	return sb.String()
}
