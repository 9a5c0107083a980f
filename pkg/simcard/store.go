package simcard

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrDuplicateFile    = errors.New("duplicate file id")
	ErrNotDedicated     = errors.New("not a transparent file")
	ErrNotRecordFile    = errors.New("not a record file")
	ErrRecordOutOfRange = errors.New("record out of range")
)

// Store holds the elementary files of one card, keyed by id. It is filled
// once at construction and never modified.
type Store struct {
	files map[uint16]File
}

// NewStore indexes files by id. Ids must be unique and every file must hold
// what its constructor would accept.
func NewStore(files ...File) (*Store, error) {
	s := &Store{files: make(map[uint16]File, len(files))}
	for _, f := range files {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.files[f.ID]; dup {
			return nil, fmt.Errorf("%w: %04X", ErrDuplicateFile, f.ID)
		}
		s.files[f.ID] = f
	}
	return s, nil
}

// Find returns the file with the given id. Ids outside the 16-bit range are
// never found.
func (s *Store) Find(id int) (File, error) {
	if id >= 0 && id <= 0xFFFF {
		if f, ok := s.files[uint16(id)]; ok {
			return f, nil
		}
	}
	return File{}, fmt.Errorf("%w: %d", ErrFileNotFound, id)
}

// Len returns the number of files.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

// Files returns every file ordered by id.
func (s *Store) Files() []File {
	out := make([]File, 0, s.Len())
	if s == nil {
		return out
	}
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReadDedicated returns the whole body of a transparent file as lowercase
// hex.
func ReadDedicated(f File) (string, error) {
	d, ok := f.Contents.(Dedicated)
	if !ok {
		return "", fmt.Errorf("EF %04X: %w", f.ID, ErrNotDedicated)
	}
	return hex.EncodeToString(d.Data), nil
}

// ReadRecord returns record n (1-indexed) of a linear or cyclic file as
// lowercase hex.
func ReadRecord(f File, n int) (string, error) {
	rec, ok := recordGeometry(f)
	if !ok {
		return "", fmt.Errorf("EF %04X: %w", f.ID, ErrNotRecordFile)
	}

	data, err := rec.Record(n)
	if err != nil {
		return "", fmt.Errorf("EF %04X: %w", f.ID, err)
	}
	return hex.EncodeToString(data), nil
}

// recordGeometry returns the records of f, if it is a record file.
func recordGeometry(f File) (Records, bool) {
	switch c := f.Contents.(type) {
	case Linear:
		return c.Records, true
	case Cyclic:
		return c.Records, true
	}
	return Records{}, false
}
