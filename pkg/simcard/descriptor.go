package simcard

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// DescriptorLength is the size of the GET RESPONSE body of an EF.
const DescriptorLength = 15

// Fixed descriptor bytes (TS 51.011 §9.2.1).
const (
	fileTypeEF        = 0x04
	accessIncrease    = 0xA0 // byte 10: INCREASE ALW / RFU
	accessRehabInval  = 0xAA // byte 11: REHABILITATE ADM / INVALIDATE ADM
	fileStatusValid   = 0x00
	descriptorTailLen = 0x02
)

// Access condition byte 9 (READ/SEEK in the high nibble, UPDATE in the low
// nibble) derived from the file flags.
const (
	accessAlways      = 0x00
	accessReadOnly    = 0x0A
	accessPIN         = 0x11
	accessReadOnlyPIN = 0x1A
)

var ErrFileTooLarge = errors.New("file too large for descriptor")

// AccessCondition returns descriptor byte 9 for the given flags.
func AccessCondition(fl Flags) byte {
	switch {
	case fl.Has(ReadOnly | NeedPIN):
		return accessReadOnlyPIN
	case fl.Has(ReadOnly):
		return accessReadOnly
	case fl.Has(NeedPIN):
		return accessPIN
	default:
		return accessAlways
	}
}

// Descriptor encodes the 15-byte GET RESPONSE body of f.
func Descriptor(f File) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	size := f.Contents.Size()
	if size > 0xFFFF {
		return nil, fmt.Errorf("EF %04X: %w: %d bytes", f.ID, ErrFileTooLarge, size)
	}

	var recordLength byte
	switch c := f.Contents.(type) {
	case Dedicated:
	case Linear:
		recordLength = byte(c.Length)
	case Cyclic:
		recordLength = byte(c.Length)
	default:
		return nil, fmt.Errorf("EF %04X: %w", f.ID, ErrUnknownContents)
	}

	d := make([]byte, 0, DescriptorLength)
	d = append(d, 0x00, 0x00)
	d = binary.BigEndian.AppendUint16(d, uint16(size))
	d = binary.BigEndian.AppendUint16(d, f.ID)
	d = append(d,
		fileTypeEF,
		0x00,
		AccessCondition(f.Flags),
		accessIncrease,
		accessRehabInval,
		fileStatusValid,
		descriptorTailLen,
		byte(f.Contents.Structure()),
		recordLength,
	)
	return d, nil
}

// EncodeDescriptor returns Descriptor(f) as 30 lowercase hex characters.
func EncodeDescriptor(f File) (string, error) {
	d, err := Descriptor(f)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(d), nil
}
