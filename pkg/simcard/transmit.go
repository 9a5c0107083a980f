package simcard

import (
	"encoding/binary"
	"fmt"

	"github.com/gregLibert/sim-card/pkg/iso7816"
)

// Transmitter exposes a card as a GSM 11.11 APDU interface, so the same
// iso7816.Client can drive an emulated card or a real one. File commands are
// translated to +CRSM requests on the selected file.
type Transmitter struct {
	card     *Card
	selected int
}

var _ iso7816.Transmitter = (*Transmitter)(nil)

const noSelection = -1

// NewTransmitter wraps card. No file is selected initially.
func NewTransmitter(card *Card) *Transmitter {
	return &Transmitter{card: card, selected: noSelection}
}

// Transmit executes one command APDU and returns the response APDU. Card
// level failures are reported in the status word; the error is reserved for
// input that is not an APDU at all.
func (t *Transmitter) Transmit(raw []byte) ([]byte, error) {
	cmd, err := iso7816.ParseCommandAPDU(raw)
	if err != nil {
		if len(raw) < 4 {
			return nil, err
		}
		t.card.log.WithError(err).Debug("rejected APDU")
		return status(iso7816.SW_ERR_WRONG_LENGTH), nil
	}

	if cmd.Class.Raw != iso7816.ClassGSM.Raw {
		return status(iso7816.SW_ERR_CLA_NOT_SUPPORTED), nil
	}

	switch cmd.Instruction.Raw {
	case iso7816.INS_SELECT:
		return t.sel(cmd), nil
	case iso7816.INS_GET_RESPONSE:
		return t.crsm(CmdGetResponse, cmd), nil
	case iso7816.INS_READ_BINARY:
		return t.crsm(CmdReadBinary, cmd), nil
	case iso7816.INS_READ_RECORD:
		return t.crsm(CmdReadRecord, cmd), nil
	case iso7816.INS_VERIFY_CHV:
		return t.verify(cmd), nil
	case iso7816.INS_UNBLOCK_CHV:
		return t.unblock(cmd), nil
	default:
		return status(iso7816.SW_ERR_INS_INVALID), nil
	}
}

func (t *Transmitter) sel(cmd *iso7816.CommandAPDU) []byte {
	if len(cmd.Data) != 2 {
		return status(iso7816.SW_ERR_WRONG_LENGTH)
	}
	t.selected = int(binary.BigEndian.Uint16(cmd.Data))
	return status(iso7816.NewStatusWord(0x9F, DescriptorLength))
}

func (t *Transmitter) crsm(code int, cmd *iso7816.CommandAPDU) []byte {
	if t.selected == noSelection {
		return status(iso7816.SW_GSM_NO_EF_SELECTED)
	}

	req := Command{Code: code, FileID: t.selected, P1: int(cmd.P1), P2: int(cmd.P2), P3: cmd.Ne}
	resp := t.card.Handle(req.String())

	data, err := resp.Data()
	if err != nil {
		t.card.log.WithError(err).Debug("undecodable payload")
		return status(iso7816.SW_ERR_EXEC_NO_INFO)
	}
	return (&iso7816.ResponseAPDU{Data: data, Status: resp.Status}).Bytes()
}

func (t *Transmitter) verify(cmd *iso7816.CommandAPDU) []byte {
	if len(cmd.Data) != iso7816.CHVLength {
		return status(iso7816.SW_ERR_WRONG_LENGTH)
	}
	if t.card.CheckPIN(iso7816.UnpadCHV(cmd.Data)) {
		return status(iso7816.SW_NO_ERROR)
	}
	return t.chvFailure()
}

func (t *Transmitter) unblock(cmd *iso7816.CommandAPDU) []byte {
	if len(cmd.Data) != 2*iso7816.CHVLength {
		return status(iso7816.SW_ERR_WRONG_LENGTH)
	}
	puk := iso7816.UnpadCHV(cmd.Data[:iso7816.CHVLength])
	pin := iso7816.UnpadCHV(cmd.Data[iso7816.CHVLength:])
	if t.card.CheckPUK(puk, pin) {
		return status(iso7816.SW_NO_ERROR)
	}
	return t.chvFailure()
}

func (t *Transmitter) chvFailure() []byte {
	switch t.card.Status() {
	case StatusPUK, StatusAbsent:
		return status(iso7816.SW_GSM_CHV_BLOCKED)
	default:
		return status(iso7816.SW_GSM_ACCESS_NOT_FULFILED)
	}
}

// APDUs returns the SELECT of the target file followed by the file command
// the +CRSM request stands for.
func (c Command) APDUs() (sel, cmd *iso7816.CommandAPDU, err error) {
	if c.FileID < 0 || c.FileID > 0xFFFF {
		return nil, nil, fmt.Errorf("file id %d out of range", c.FileID)
	}
	if c.P1 < 0 || c.P1 > 0xFF || c.P2 < 0 || c.P2 > 0xFF {
		return nil, nil, fmt.Errorf("parameters %d,%d out of range", c.P1, c.P2)
	}
	if c.Code < 0 || c.Code > 0xFF {
		return nil, nil, fmt.Errorf("command %d out of range", c.Code)
	}
	ins, err := iso7816.NewInstruction(iso7816.InsCode(c.Code))
	if err != nil {
		return nil, nil, err
	}

	sel = iso7816.Select(iso7816.ClassGSM, uint16(c.FileID))
	cmd = iso7816.NewCommandAPDU(iso7816.ClassGSM, ins, byte(c.P1), byte(c.P2), nil, c.P3)
	return sel, cmd, nil
}

func status(sw iso7816.StatusWord) []byte {
	return []byte{sw.SW1(), sw.SW2()}
}
