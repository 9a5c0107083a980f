package simcard

import (
	"errors"
	"fmt"
)

// Flags are the access attributes of an elementary file.
type Flags uint8

const (
	ReadOnly Flags = 1 << iota
	NeedPIN
)

// Has reports whether every bit of f is set in fl.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

func (fl Flags) String() string {
	switch fl {
	case 0:
		return "none"
	case ReadOnly:
		return "READ_ONLY"
	case NeedPIN:
		return "NEED_PIN"
	case ReadOnly | NeedPIN:
		return "READ_ONLY|NEED_PIN"
	default:
		return fmt.Sprintf("Flags(0x%02X)", uint8(fl))
	}
}

// Structure is the EF structure code of the GET RESPONSE descriptor
// (TS 51.011 §9.2.1, byte 14).
type Structure byte

const (
	StructureTransparent Structure = 0x00
	StructureLinear      Structure = 0x01
	StructureCyclic      Structure = 0x03
)

func (s Structure) String() string {
	switch s {
	case StructureTransparent:
		return "transparent"
	case StructureLinear:
		return "linear fixed"
	case StructureCyclic:
		return "cyclic"
	default:
		return fmt.Sprintf("Structure(0x%02X)", byte(s))
	}
}

// Maximum record geometry. Both values fit the one-byte fields of the
// descriptor and of READ RECORD.
const (
	MaxRecordLength = 255
	MaxRecordCount  = 255
)

var (
	ErrEmptyFile       = errors.New("file has no content")
	ErrRecordGeometry  = errors.New("invalid record geometry")
	ErrUnknownContents = errors.New("unknown file contents")
)

// Contents is the kind-specific body of a File. It is implemented by
// Dedicated, Linear and Cyclic only.
type Contents interface {
	// Size is the total byte length of the file body.
	Size() int
	Structure() Structure
	contents()
}

// File is an elementary file: a 16-bit identifier, access flags, and one of
// the Contents variants.
type File struct {
	ID       uint16
	Flags    Flags
	Contents Contents
}

func (f File) String() string {
	return fmt.Sprintf("EF %04X (%s, %d bytes, %s)", f.ID, f.Contents.Structure(), f.Contents.Size(), f.Flags)
}

// Dedicated is a transparent EF, read as one byte string.
type Dedicated struct {
	Data []byte
}

func (d Dedicated) Size() int { return len(d.Data) }
func (Dedicated) Structure() Structure { return StructureTransparent }
func (Dedicated) contents() {}

// Records is the geometry shared by linear and cyclic files: Count records
// of Length bytes stored back to back.
type Records struct {
	Count  int
	Length int
	Data   []byte
}

func (r Records) Size() int { return r.Count * r.Length }

// Record returns the bytes of the 1-indexed record n.
func (r Records) Record(n int) ([]byte, error) {
	if n < 1 || n > r.Count {
		return nil, fmt.Errorf("%w: record %d of %d", ErrRecordOutOfRange, n, r.Count)
	}
	off := (n - 1) * r.Length
	if r.Length < 1 || off+r.Length > len(r.Data) {
		return nil, fmt.Errorf("%w: record %d past %d bytes", ErrRecordGeometry, n, len(r.Data))
	}
	return r.Data[off : off+r.Length], nil
}

func (r Records) validate() error {
	if r.Length < 1 || r.Length > MaxRecordLength {
		return fmt.Errorf("%w: record length %d", ErrRecordGeometry, r.Length)
	}
	if r.Count < 1 || r.Count > MaxRecordCount {
		return fmt.Errorf("%w: %d records", ErrRecordGeometry, r.Count)
	}
	if len(r.Data) != r.Count*r.Length {
		return fmt.Errorf("%w: %d bytes for %d records of %d", ErrRecordGeometry, len(r.Data), r.Count, r.Length)
	}
	return nil
}

// Linear is a linear fixed EF.
type Linear struct{ Records }

func (Linear) Structure() Structure { return StructureLinear }
func (Linear) contents() {}

// Cyclic is a cyclic EF. It is read exactly like a Linear file.
type Cyclic struct{ Records }

func (Cyclic) Structure() Structure { return StructureCyclic }
func (Cyclic) contents() {}

// NewDedicated builds a transparent EF over data.
func NewDedicated(id uint16, flags Flags, data []byte) (File, error) {
	if len(data) == 0 {
		return File{}, fmt.Errorf("EF %04X: %w", id, ErrEmptyFile)
	}
	return File{ID: id, Flags: flags, Contents: Dedicated{Data: data}}, nil
}

// NewLinear builds a linear fixed EF by cutting data into records of
// recordLength bytes.
func NewLinear(id uint16, flags Flags, recordLength int, data []byte) (File, error) {
	rec, err := newRecords(recordLength, data)
	if err != nil {
		return File{}, fmt.Errorf("EF %04X: %w", id, err)
	}
	return File{ID: id, Flags: flags, Contents: Linear{rec}}, nil
}

// NewCyclic builds a cyclic EF by cutting data into records of recordLength
// bytes.
func NewCyclic(id uint16, flags Flags, recordLength int, data []byte) (File, error) {
	rec, err := newRecords(recordLength, data)
	if err != nil {
		return File{}, fmt.Errorf("EF %04X: %w", id, err)
	}
	return File{ID: id, Flags: flags, Contents: Cyclic{rec}}, nil
}

// validate checks a file built without the constructors.
func (f File) validate() error {
	var err error
	switch c := f.Contents.(type) {
	case Dedicated:
		if len(c.Data) == 0 {
			err = ErrEmptyFile
		}
	case Linear:
		err = c.validate()
	case Cyclic:
		err = c.validate()
	default:
		err = ErrUnknownContents
	}
	if err != nil {
		return fmt.Errorf("EF %04X: %w", f.ID, err)
	}
	return nil
}

func newRecords(length int, data []byte) (Records, error) {
	if length < 1 || length > MaxRecordLength {
		return Records{}, fmt.Errorf("%w: record length %d", ErrRecordGeometry, length)
	}
	if len(data) == 0 || len(data)%length != 0 {
		return Records{}, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrRecordGeometry, len(data), length)
	}
	count := len(data) / length
	if count > MaxRecordCount {
		return Records{}, fmt.Errorf("%w: %d records", ErrRecordGeometry, count)
	}
	return Records{Count: count, Length: length, Data: data}, nil
}
