// Package simfile decodes the payloads of well-known GSM elementary files
// into readable reports.
package simfile

import (
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/tlv"
)

// Elementary file identifiers.
const (
	EF_ICCID  uint16 = 0x2FE2
	EF_ADN    uint16 = 0x6F3A
	EF_SST    uint16 = 0x6F38
	EF_MSISDN uint16 = 0x6F40
	EF_CBMI   uint16 = 0x6F45
	EF_SPN    uint16 = 0x6F46
	EF_CBMIR  uint16 = 0x6F50
	EF_AD     uint16 = 0x6FAD
	EF_PNN    uint16 = 0x6FC5
	EF_MBDN   uint16 = 0x6FC7
	EF_SPDI   uint16 = 0x6FCD
)

var fileNames = map[uint16]string{
	EF_ICCID:  "EF_ICCID",
	EF_ADN:    "EF_ADN",
	EF_SST:    "EF_SST",
	EF_MSISDN: "EF_MSISDN",
	EF_CBMI:   "EF_CBMI",
	EF_SPN:    "EF_SPN",
	EF_CBMIR:  "EF_CBMIR",
	EF_AD:     "EF_AD",
	EF_PNN:    "EF_PNN",
	EF_MBDN:   "EF_MBDN",
	EF_SPDI:   "EF_SPDI",
}

// Name returns the conventional name of a file, or its hex id.
func Name(id uint16) string {
	if name, ok := fileNames[id]; ok {
		return name
	}
	return fmt.Sprintf("EF %04X", id)
}

// Known reports whether Describe has a decoder for id.
func Known(id uint16) bool {
	_, ok := fileNames[id]
	return ok
}

// Describe renders the content of file id. Unknown files are dumped in hex.
func Describe(id uint16, data []byte) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== %s (%04X) ===\n", Name(id), id))

	if err := describeBody(&sb, id, data); err != nil {
		return "", fmt.Errorf("%s: %w", Name(id), err)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func describeBody(sb *strings.Builder, id uint16, data []byte) error {
	switch id {
	case EF_ICCID:
		sb.WriteString(fmt.Sprintf("    - Number: %s\n", ICCID(data)))

	case EF_SST:
		sb.WriteString(fmt.Sprintf("    - Enabled services: %s\n", formatRanges(ServiceTable(data).EnabledServices())))

	case EF_SPN:
		spn, err := ParseSPN(data)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("    - Display condition: %02X\n", spn.DisplayCondition))
		sb.WriteString(fmt.Sprintf("    - Name: %q\n", spn.Name))

	case EF_AD:
		ad, err := ParseAD(data)
		if err != nil {
			return err
		}
		writeFields(sb, "AD", ad)

	case EF_CBMI, EF_CBMIR:
		describeIdentifiers(sb, MessageIdentifiers(data), id == EF_CBMIR)

	case EF_SPDI:
		spdi, err := ParseSPDI(data)
		if err != nil {
			return err
		}
		for _, p := range spdi.Networks() {
			sb.WriteString(fmt.Sprintf("    - PLMN: %s\n", p))
		}
		writeFields(sb, "SPDI", spdi)

	case EF_PNN:
		pnn, err := ParsePNN(data)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("    - Full name: %q\n", pnn.Full.Text))
		if len(pnn.Short.Raw) > 0 {
			sb.WriteString(fmt.Sprintf("    - Short name: %q\n", pnn.Short.Text))
		}
		writeFields(sb, "PNN", pnn)

	case EF_MSISDN, EF_ADN, EF_MBDN:
		dn, err := ParseDialingNumber(data)
		if err != nil {
			return err
		}
		sb.WriteString(dn.Describe("Record") + "\n")

	default:
		sb.WriteString(fmt.Sprintf("    - Raw: %X\n", data))
		sb.WriteString(fmt.Sprintf("    - ASCII: %q\n", tlv.MakeSafeASCII(data)))
	}
	return nil
}

// writeFields appends the raw []byte and uncaught TLV fields of v.
func writeFields(sb *strings.Builder, prefix string, v interface{}) {
	var fields strings.Builder
	tlv.WriteStructFields(&fields, prefix, v)
	if fields.Len() > 0 {
		sb.WriteString(fields.String() + "\n")
	}
}

// formatRanges renders sorted numbers compactly: "1..4, 7, 9..19".
func formatRanges(ns []int) string {
	var parts []string
	for i := 0; i < len(ns); {
		j := i
		for j+1 < len(ns) && ns[j+1] == ns[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d..%d", ns[i], ns[j]))
		} else {
			parts = append(parts, fmt.Sprintf("%d", ns[i]))
		}
		i = j + 1
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
