package simcard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/sim-card/pkg/iso7816"
	"github.com/gregLibert/sim-card/pkg/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmitter_RawExchange(t *testing.T) {
	card, _ := newTestCard(t)
	tx := NewTransmitter(card)

	steps := []struct {
		name string
		apdu string
		want string
	}{
		{"read before select", "A0 B0 0000 06", "9400"},
		{"select CBMI", "A0 A4 0000 02 6F45", "9F0F"},
		{"get response", "A0 C0 0000 0F", "000000066F4504000FA0AA01020000 9000"},
		{"read binary", "A0 B0 0000 06", "B000FFFFF000 9000"},
		{"read binary, no static answer", "A0 B0 0000 05", "6A86"},
		{"select ADN", "A0 A4 0000 02 6F3A", "9F0F"},
		{"read record 2", "A0 B2 0204 20", "800053006100DF00EA9EC3FFFFFFFFFFFFFF07815155258102F2FFFFFFFFFFFF 9000"},
		{"select with bad length", "A0 A4 0000 01 6F", "6700"},
		{"wrong class", "00 B0 0000 06", "6E00"},
		{"unsupported instruction", "A0 F2 0000 16", "6D00"},
		{"inconsistent body", "A0 A4 0000 05 6F3A", "6700"},
	}

	for _, s := range steps {
		got, err := tx.Transmit(tlv.Hex(s.apdu))
		require.NoError(t, err, s.name)
		if diff := cmp.Diff(tlv.Hex(s.want), got); diff != "" {
			t.Errorf("%s: response mismatch (-want +got):\n%s", s.name, diff)
		}
	}

	_, err := tx.Transmit([]byte{0xA0, 0xA4})
	assert.Error(t, err)
}

func TestTransmitter_Client(t *testing.T) {
	card := newDynamicCard(t)
	client := iso7816.NewClient(NewTransmitter(card))

	trace, err := client.Send(iso7816.Select(iso7816.ClassGSM, 0x6F40))
	require.NoError(t, err)
	require.True(t, trace.IsSuccess())
	assert.Equal(t, tlv.Hex("000000806f40040011a0aa01020120"), trace.Data())

	trace, err = client.Send(iso7816.ReadRecord(iso7816.ClassGSM, 1, 32))
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex(MSISDN(5554, 0)), trace.Data())

	trace, err = client.Send(iso7816.ReadRecord(iso7816.ClassGSM, 5, 32))
	require.NoError(t, err)
	assert.Equal(t, iso7816.SW_ERR_RECORD_NOT_FOUND, trace.Last().Response.Status)
}

func TestTransmitter_CHV(t *testing.T) {
	card, _ := newTestCard(t)
	card.SetStatus(StatusPIN)
	client := iso7816.NewClient(NewTransmitter(card))

	status := func(cmd *iso7816.CommandAPDU) iso7816.StatusWord {
		t.Helper()
		trace, err := client.Send(cmd)
		require.NoError(t, err)
		return trace.Last().Response.Status
	}

	assert.Equal(t, iso7816.SW_GSM_ACCESS_NOT_FULFILED, status(iso7816.VerifyCHV(iso7816.ClassGSM, 1, "1111")))
	assert.Equal(t, iso7816.SW_NO_ERROR, status(iso7816.VerifyCHV(iso7816.ClassGSM, 1, "0000")))

	card.SetStatus(StatusPIN)
	for i := 0; i < MaxPINAttempts-1; i++ {
		status(iso7816.VerifyCHV(iso7816.ClassGSM, 1, "1111"))
	}
	assert.Equal(t, iso7816.SW_GSM_CHV_BLOCKED, status(iso7816.VerifyCHV(iso7816.ClassGSM, 1, "1111")))
	assert.Equal(t, StatusPUK, card.Status())

	assert.Equal(t, iso7816.SW_GSM_CHV_BLOCKED, status(iso7816.UnblockCHV(iso7816.ClassGSM, 1, "00000000", "2468")))
	assert.Equal(t, iso7816.SW_NO_ERROR, status(iso7816.UnblockCHV(iso7816.ClassGSM, 1, "12345678", "2468")))
	assert.Equal(t, "2468", card.PIN())
	assert.Equal(t, StatusReady, card.Status())

	short := iso7816.NewCommandAPDU(iso7816.ClassGSM, iso7816.Instruction{Raw: iso7816.INS_VERIFY_CHV}, 0, 1, []byte("0000"), 0)
	assert.Equal(t, iso7816.SW_ERR_WRONG_LENGTH, status(short))
}

func TestCommand_APDUs(t *testing.T) {
	cmd, err := ParseCommand("+CRSM=178,28474,2,4,32")
	require.NoError(t, err)

	sel, read, err := cmd.APDUs()
	require.NoError(t, err)

	raw, err := sel.Bytes()
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex("A0A40000026F3A"), raw)
	raw, err = read.Bytes()
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex("A0B2020420"), raw)

	for _, bad := range []Command{
		{Code: 176, FileID: 0x10000},
		{Code: 176, FileID: 1, P1: 256},
		{Code: 0x6A, FileID: 1},
		{Code: 1000, FileID: 1},
	} {
		_, _, err := bad.APDUs()
		assert.Error(t, err, bad.String())
	}
}

func TestCommand_APDUsMatchStaticTable(t *testing.T) {
	card, _ := newTestCard(t)
	client := iso7816.NewClient(NewTransmitter(card))

	for _, req := range StaticCommands() {
		cmd, err := ParseCommand(req)
		require.NoError(t, err)
		sel, apdu, err := cmd.APDUs()
		require.NoError(t, err)

		_, err = client.Send(sel)
		require.NoError(t, err)
		trace, err := client.Send(apdu)
		require.NoError(t, err, req)

		want := card.Handle(req)
		assert.Equal(t, want.Status, trace.Last().Response.Status, req)
		data, err := want.Data()
		require.NoError(t, err)
		assert.Equal(t, data, trace.Last().Response.Data, req)
	}
}
