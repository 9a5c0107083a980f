// Package tlv maps the BER-TLV objects found in SIM elementary files (EF_SPDI,
// EF_PNN, ...) onto Go structs using `tlv:"<tag>"` struct tags.
//
// A field tagged `tlv:",unknown"` (or named Unknown) of type []bertlv.TLV
// collects every object no other field claimed.
package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshaler lets a field type decode its own value bytes.
type Unmarshaler interface {
	UnmarshalTLV(data []byte) error
}

// Unmarshal decodes an EF body into target. Decoding stops at the 'FF'
// filler of fixed-size records.
func Unmarshal(data []byte, target interface{}) error {
	objects, err := bertlv.Decode(data[:Extent(data)])
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}
	return UnmarshalFromPackets(objects, target)
}

// UnmarshalFromPackets maps already decoded objects onto target, which must be
// a non-nil struct pointer. Repeated tags append to slice fields.
func UnmarshalFromPackets(objects []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()

	fields, unknown := indexFields(v)
	var leftovers []bertlv.TLV

	for _, obj := range objects {
		field, ok := fields[strings.ToUpper(obj.Tag)]
		if !ok {
			leftovers = append(leftovers, obj)
			continue
		}
		if err := assign(obj, field); err != nil {
			return fmt.Errorf("tag %s: %w", obj.Tag, err)
		}
	}

	if unknown.IsValid() && unknown.CanSet() && len(leftovers) > 0 {
		unknown.Set(reflect.ValueOf(leftovers))
	}
	return nil
}

// indexFields returns the struct fields keyed by upper-case tag, plus the
// catch-all field if the struct declares one.
func indexFields(v reflect.Value) (map[string]reflect.Value, reflect.Value) {
	t := v.Type()
	fields := make(map[string]reflect.Value)
	var unknown reflect.Value

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("tlv")

		if tag == ",unknown" || sf.Name == "Unknown" {
			unknown = v.Field(i)
			continue
		}
		if tag == "" {
			continue
		}
		fields[strings.ToUpper(strings.Split(tag, ",")[0])] = v.Field(i)
	}
	return fields, unknown
}

func assign(obj bertlv.TLV, field reflect.Value) error {
	if field.Kind() == reflect.Slice && !isByteSlice(field) {
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := decodeInto(obj, elem); err != nil {
			return err
		}
		field.Set(reflect.Append(field, elem))
		return nil
	}
	return decodeInto(obj, field)
}

func decodeInto(obj bertlv.TLV, field reflect.Value) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(valueBytes(obj))
		}
	}

	switch {
	case isByteSlice(field):
		field.SetBytes(valueBytes(obj))
	case field.Kind() == reflect.String:
		field.SetString(hex.EncodeToString(valueBytes(obj)))
	case field.Kind() == reflect.Struct:
		return decodeNested(obj, field.Addr())
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return decodeNested(obj, field)
	}
	return nil
}

func decodeNested(obj bertlv.TLV, ptr reflect.Value) error {
	if len(obj.TLVs) > 0 {
		return UnmarshalFromPackets(obj.TLVs, ptr.Interface())
	}
	return Unmarshal(obj.Value, ptr.Interface())
}

// valueBytes returns the value field of obj. Constructed objects are
// re-encoded since bertlv keeps only their children.
func valueBytes(obj bertlv.TLV) []byte {
	if len(obj.TLVs) > 0 {
		if enc, err := bertlv.Encode(obj.TLVs); err == nil {
			return enc
		}
	}
	return obj.Value
}

// GetValue returns the value of the first top-level object carrying tag.
func GetValue(data []byte, tag uint) ([]byte, error) {
	objects, err := bertlv.Decode(data[:Extent(data)])
	if err != nil {
		return nil, err
	}

	want := fmt.Sprintf("%X", tag)
	for _, obj := range objects {
		if strings.ToUpper(obj.Tag) == want {
			return valueBytes(obj), nil
		}
	}
	return nil, fmt.Errorf("tag %s not found", want)
}

func isByteSlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}
