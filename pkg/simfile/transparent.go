package simfile

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/bits"
	"github.com/gregLibert/sim-card/pkg/tlv"
)

// ICCID decodes EF_ICCID: swapped BCD digits.
func ICCID(data []byte) string {
	return tlv.SwappedBCD(data)
}

// ServiceTable is EF_SST: two bits per service, allocated then activated.
type ServiceTable []byte

// Enabled reports whether service n (1-based) is allocated and activated.
func (s ServiceTable) Enabled(n int) bool {
	if n < 1 || n > 4*len(s) {
		return false
	}
	b := s[(n-1)/4]
	low := uint(((n-1)%4)*2) + 1
	return bits.IsSet(b, low) && bits.IsSet(b, low+1)
}

// EnabledServices lists the enabled service numbers in ascending order.
func (s ServiceTable) EnabledServices() []int {
	var out []int
	for n := 1; n <= 4*len(s); n++ {
		if s.Enabled(n) {
			out = append(out, n)
		}
	}
	return out
}

// ServiceProviderName is EF_SPN.
type ServiceProviderName struct {
	DisplayCondition byte
	Name             string
}

// ParseSPN decodes EF_SPN: a display condition byte and a GSM alpha field.
func ParseSPN(data []byte) (*ServiceProviderName, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("empty EF_SPN")
	}
	name, err := DecodeAlpha(data[1:])
	if err != nil {
		return nil, err
	}
	return &ServiceProviderName{DisplayCondition: data[0], Name: name}, nil
}

// AdministrativeData is EF_AD.
type AdministrativeData struct {
	Mode           []byte `fmt:"int"`
	AdditionalInfo []byte
	MNCLength      []byte `fmt:"int"`
}

// ParseAD splits EF_AD into its fields. The MNC length byte is optional.
func ParseAD(data []byte) (*AdministrativeData, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("EF_AD too short: %d bytes", len(data))
	}
	ad := &AdministrativeData{Mode: data[:1], AdditionalInfo: data[1:3]}
	if len(data) > 3 {
		ad.MNCLength = []byte{bits.Low(data[3])}
	}
	return ad, nil
}

// MessageIdentifiers decodes EF_CBMI, or EF_CBMIR as consecutive pairs:
// 16-bit identifiers with 'FFFF' marking unused entries.
func MessageIdentifiers(data []byte) []uint16 {
	var ids []uint16
	for i := 0; i+1 < len(data); i += 2 {
		ids = append(ids, binary.BigEndian.Uint16(data[i:]))
	}
	return ids
}

func describeIdentifiers(sb *strings.Builder, ids []uint16, ranges bool) {
	step := 1
	if ranges {
		step = 2
	}
	for i := 0; i+step <= len(ids); i += step {
		prefix := fmt.Sprintf("    - Identifier[%d]: ", i/step+1)
		switch {
		case ids[i] == 0xFFFF:
			sb.WriteString(prefix + "unused\n")
		case ranges:
			sb.WriteString(fmt.Sprintf("%s%d..%d\n", prefix, ids[i], ids[i+1]))
		default:
			sb.WriteString(fmt.Sprintf("%s%d\n", prefix, ids[i]))
		}
	}
}
