package simfile

import (
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/bits"
	"github.com/gregLibert/sim-card/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// PLMN decodes a 3-byte MCC/MNC in the 24.008 layout. A 2-digit MNC has 'F'
// in its third digit. It returns "" for an unused 'FFFFFF' entry.
func PLMN(b []byte) string {
	if len(b) < 3 || (b[0] == 0xFF && b[1] == 0xFF && b[2] == 0xFF) {
		return ""
	}
	digits := []byte{
		bits.Low(b[0]), bits.High(b[0]), bits.Low(b[1]),
		bits.Low(b[2]), bits.High(b[2]), bits.High(b[1]),
	}

	var sb strings.Builder
	for _, d := range digits {
		if d <= 9 {
			sb.WriteByte('0' + d)
		}
	}
	return sb.String()
}

// SPDIList is the PLMN list object of EF_SPDI.
type SPDIList struct {
	PLMNs []byte `tlv:"80"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ServiceProviderDisplay is EF_SPDI.
type ServiceProviderDisplay struct {
	List SPDIList `tlv:"A3"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ParseSPDI decodes EF_SPDI.
func ParseSPDI(data []byte) (*ServiceProviderDisplay, error) {
	spdi := &ServiceProviderDisplay{}
	if err := tlv.Unmarshal(data, spdi); err != nil {
		return nil, fmt.Errorf("failed to map EF_SPDI: %w", err)
	}
	return spdi, nil
}

// Networks returns the listed PLMNs, skipping unused entries.
func (s *ServiceProviderDisplay) Networks() []string {
	var out []string
	for i := 0; i+3 <= len(s.List.PLMNs); i += 3 {
		if p := PLMN(s.List.PLMNs[i : i+3]); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NetworkName is a 24.008 network name information element value: a coding
// octet followed by the text.
type NetworkName struct {
	Raw  []byte
	Text string
}

// Network name coding schemes (bits 7-5 of the first octet).
const (
	nameGSM7 = 0
	nameUCS2 = 1
)

func (n *NetworkName) UnmarshalTLV(data []byte) error {
	n.Raw = data
	if len(data) == 0 {
		return nil
	}

	coding := bits.GetRange(data[0], 7, 5)
	spare := int(bits.GetRange(data[0], 3, 1))

	switch coding {
	case nameGSM7:
		text, err := DecodeGSM(Unpack7(data[1:], spare))
		if err != nil {
			return err
		}
		n.Text = text
	case nameUCS2:
		text, err := decodeUCS2(data[1:])
		if err != nil {
			return err
		}
		n.Text = text
	default:
		return fmt.Errorf("network name coding %d not supported", coding)
	}
	return nil
}

// NetworkNameRecord is one EF_PNN record.
type NetworkNameRecord struct {
	Full  NetworkName `tlv:"43"`
	Short NetworkName `tlv:"45"`
	Info  []byte      `tlv:"80"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ParsePNN decodes an EF_PNN record.
func ParsePNN(record []byte) (*NetworkNameRecord, error) {
	rec := &NetworkNameRecord{}
	if err := tlv.Unmarshal(record, rec); err != nil {
		return nil, fmt.Errorf("failed to map EF_PNN: %w", err)
	}
	return rec, nil
}
