package tlv

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/moov-io/bertlv"
)

type mockRecord struct {
	ICCID      []byte `fmt:"bcd"`
	Name       []byte `tlv:"43" fmt:"ascii"`
	Phase      []byte `tlv:"80" fmt:"int"`
	Raw        []byte
	EmptyField []byte `tlv:"99"`
	Unknown    []bertlv.TLV
}

func TestWriteStructFields(t *testing.T) {
	mock := mockRecord{
		ICCID: Hex("98101430121181157002"),
		Name:  []byte{'S', 'I', 'M', 0x00},
		Phase: []byte{0x02},
		Raw:   []byte{0xCA, 0xFE},
		Unknown: []bertlv.TLV{
			{Tag: "DF01", Value: []byte{0x12, 0x34}},
		},
	}

	expected := []string{
		"    - Test.ICCID: 98101430121181157002 (89014103211118510720)",
		`    - Test.Name (43): 53494D00 ("SIM.")`,
		"    - Test.Phase (80): 02 (Dec: 2)",
		"    - Test.Raw: CAFE",
		"    - Test.Unknown Tag DF01: 1234",
	}

	tests := []struct {
		name          string
		input         interface{}
		expectedLines []string
	}{
		{name: "Struct Pointer Input", input: &mock, expectedLines: expected},
		{name: "Struct Value Input", input: mock, expectedLines: expected},
		{name: "Nil Pointer", input: (*mockRecord)(nil), expectedLines: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			WriteStructFields(&sb, "Test", tt.input)
			actualLines := strings.Split(sb.String(), "\n")

			if diff := cmp.Diff(tt.expectedLines, actualLines); diff != "" {
				t.Errorf("Mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteStructFields_Separator(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("EF_AD")
	WriteStructFields(&sb, "AD", struct {
		Mode []byte `fmt:"int"`
	}{Mode: []byte{0x00}})

	if got, want := sb.String(), "EF_AD\n    - AD.Mode: 00 (Dec: 0)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSwappedBCD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"98101430121181157002", "89014103211118510720"},
		{"5155258131F5", "15555218135"},
		{"FFFF", ""},
	}
	for _, tt := range tests {
		if got := SwappedBCD(Hex(tt.in)); got != tt.want {
			t.Errorf("SwappedBCD(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeSafeASCII(t *testing.T) {
	input := []byte{0x41, 0x42, 0x00, 0x1F, 0x7F, 0x43}
	want := "AB...C"

	if got := MakeSafeASCII(input); got != want {
		t.Errorf("MakeSafeASCII() = %q, want %q", got, want)
	}
}
