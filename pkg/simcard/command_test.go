package simcard

import (
	"strings"
	"testing"

	"github.com/gregLibert/sim-card/pkg/tlv"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{in: "+CRSM=176,28485,0,0,6", want: Command{Code: 176, FileID: 28485, P3: 6}},
		{in: "+CRSM=178,28474,2,4,32", want: Command{Code: 178, FileID: 28474, P1: 2, P2: 4, P3: 32}},
		{in: "+CRSM=242,-1,0,0,0,extra", want: Command{Code: 242, FileID: -1}},
		{in: "+CRSM=176, 28485,+0,\t0, 6", want: Command{Code: 176, FileID: 28485, P3: 6}},
		{in: "+CRSM=176,28485,0,0", wantErr: true},
		{in: "+CRSM=176 ,28485,0,0,6", wantErr: true},
		{in: "+CRSM=abc", wantErr: true},
		{in: "+CRSM=176,99999999999999999999,0,0,1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "+CRSM=178,28474,2,4,32", Command{Code: 178, FileID: 28474, P1: 2, P2: 4, P3: 32}.String())
}

func TestHandleCommand_LenientIntegers(t *testing.T) {
	must := mustFile(t)
	card, _ := newTestCard(t, WithFiles(must(NewDedicated(0x6F45, ReadOnly, tlv.Hex("B000FFFFF000")))))

	assert.Equal(t, "+CRSM: 144,0,b000fffff000", card.HandleCommand("+CRSM=176, 28485,0,0,6"))
	assert.Equal(t, "+CRSM: 144,0,b000fffff000", card.HandleCommand("+CRSM=+176,+28485,0,0,+6"))
}

func TestNew_RejectsInconsistentRecords(t *testing.T) {
	logger, _ := test.NewNullLogger()
	broken := File{ID: 0x6F40, Contents: Linear{Records{Count: 2, Length: 4, Data: []byte{1, 2}}}}

	_, err := New(5554, 0, WithLogger(logger), WithFiles(broken))
	assert.ErrorIs(t, err, ErrRecordGeometry)
}

func TestResponse_String(t *testing.T) {
	assert.Equal(t, "+CRSM: 144,0,", success("").String())
	assert.Equal(t, "+CRSM: 144,0,0a", success("0a").String())
	assert.Equal(t, "+CRSM: 106,130", RespFileNotFound.String())

	resp, err := ParseResponse("+CRSM: 144,0,")
	require.NoError(t, err)
	assert.Equal(t, success(""), resp)
}

func TestHandleCommand_PrefixContract(t *testing.T) {
	card, _ := newTestCard(t)
	assert.Panics(t, func() { card.HandleCommand("AT+CRSM=176,28485,0,0,6") })
	assert.Panics(t, func() { card.HandleCommand("") })
}

func TestHandleCommand_Dynamic(t *testing.T) {
	must := mustFile(t)
	card, _ := newTestCard(t, WithFiles(
		must(NewDedicated(0x6F45, ReadOnly, tlv.Hex("B000FFFFF000"))),
		must(NewLinear(0x6F3A, NeedPIN, 3, tlv.Hex("0A0B0C 1A1B1C"))),
		must(NewCyclic(0x6F44, NeedPIN, 2, tlv.Hex("0102 0304 0506"))),
	))
	require.Equal(t, ModeDynamic, card.Mode())

	tests := []struct {
		cmd  string
		want string
	}{
		// READ BINARY
		{"+CRSM=176,28485,0,0,6", "+CRSM: 144,0,b000fffff000"},
		{"+CRSM=176,28485,0,0,2", "+CRSM: 144,0,b000fffff000"},
		{"+CRSM=176,28485,0,0,0", "+CRSM: 144,0,b000fffff000"},
		{"+CRSM=176,28485,0,0,7", "+CRSM: 103,0"},
		{"+CRSM=176,28485,0,1,6", "+CRSM: 106,134"},
		{"+CRSM=176,28485,1,0,6", "+CRSM: 106,134"},
		{"+CRSM=176,28474,0,0,3", "+CRSM: 106,129"},
		{"+CRSM=176,99999,0,0,4", "+CRSM: 106,130"},
		{"+CRSM=176,12258,0,0,10", "+CRSM: 106,130"},

		// READ RECORD
		{"+CRSM=178,28474,1,4,3", "+CRSM: 144,0,0a0b0c"},
		{"+CRSM=178,28474,2,4,1", "+CRSM: 144,0,1a1b1c"},
		{"+CRSM=178,28474,3,4,3", "+CRSM: 106,131"},
		{"+CRSM=178,28474,1,4,4", "+CRSM: 103,0"},
		{"+CRSM=178,28474,0,4,3", "+CRSM: 106,134"},
		{"+CRSM=178,28474,1,2,3", "+CRSM: 106,134"},
		{"+CRSM=178,28485,1,4,3", "+CRSM: 106,129"},
		{"+CRSM=178,28484,3,4,2", "+CRSM: 144,0,0506"},
		{"+CRSM=178,1,1,4,2", "+CRSM: 106,130"},

		// GET RESPONSE
		{"+CRSM=192,28485,0,0,15", "+CRSM: 144,0,000000066f4504000aa0aa01020000"},
		{"+CRSM=192,28474,0,0,15", "+CRSM: 144,0,000000066f3a040011a0aa01020103"},
		{"+CRSM=192,28484,0,0,15", "+CRSM: 144,0,000000066f44040011a0aa01030002"},
		{"+CRSM=192,28485,0,0,14", "+CRSM: 106,134"},
		{"+CRSM=192,28485,1,0,15", "+CRSM: 106,134"},
		{"+CRSM=192,28480,0,0,15", "+CRSM: 106,130"},

		// Other commands
		{"+CRSM=242,0,0,0,0", "+CRSM: 106,129"},
		{"+CRSM=214,28485,0,0,6", "+CRSM: 106,129"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Equal(t, tt.want, card.HandleCommand(tt.cmd))
		})
	}
}

func TestHandleCommand_DynamicFallsBackOnUnparsable(t *testing.T) {
	card := newDynamicCard(t)

	assert.Equal(t, success(MSISDN(5554, 0)).String(), card.HandleCommand("+CRSM=178,28480,1,4,32"),
		"parsable requests are served from files")
	assert.Equal(t, "+CRSM: 106,134", card.HandleCommand("+CRSM=176"))
	assert.Equal(t, "+CRSM: 106,134", card.HandleCommand("+CRSM=unknown"))
}

func TestHandleCommand_IncorrectParametersRegardlessOfFile(t *testing.T) {
	card := newDynamicCard(t)
	for _, f := range card.Files() {
		for _, p := range [][2]int{{1, 0}, {0, 1}, {3, 4}} {
			cmd := Command{Code: CmdReadBinary, FileID: int(f.ID), P1: p[0], P2: p[1], P3: 1}
			assert.Equal(t, "+CRSM: 106,134", card.HandleCommand(cmd.String()), cmd.String())
		}
	}
}

func TestHandleCommand_HexLength(t *testing.T) {
	card := newDynamicCard(t)
	for _, f := range card.Files() {
		var cmd Command
		var want int
		if rec, ok := recordGeometry(f); ok {
			cmd = Command{Code: CmdReadRecord, FileID: int(f.ID), P1: rec.Count, P2: 4, P3: rec.Length}
			want = rec.Length
		} else {
			cmd = Command{Code: CmdReadBinary, FileID: int(f.ID), P3: f.Contents.Size()}
			want = f.Contents.Size()
		}

		resp := card.Handle(cmd.String())
		require.True(t, resp.IsSuccess(), "%s: %s", cmd, resp)
		assert.Len(t, resp.Payload, 2*want, cmd.String())
		assert.Equal(t, strings.ToLower(resp.Payload), resp.Payload)
	}
}
