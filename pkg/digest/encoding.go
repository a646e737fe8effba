package digest

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
)

// Encoding selects the canonical serialization fed to the hash function.
type Encoding int

const (
	// JSON encodes with sorted map keys and no HTML escaping.
	JSON Encoding = iota
	// CBOR encodes with RFC 8949 core deterministic rules.
	CBOR
)

func (e Encoding) String() string {
	switch e {
	case JSON:
		return "json"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding maps "json" or "cbor" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	default:
		return JSON, fmt.Errorf("unknown encoding %q", s)
	}
}

var cborMode = mustCBORMode()

func mustCBORMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// Canonical returns the canonical JSON bytes of data.
func Canonical(data any) ([]byte, error) {
	return encode(JSON, data)
}

func encode(enc Encoding, data any) ([]byte, error) {
	data = normalizeNumbers(data, make(map[visit]struct{}))
	if err := checkEncodable(enc, reflect.ValueOf(data), make(map[visit]struct{})); err != nil {
		return nil, errors.Join(ErrSerialization, err)
	}

	switch enc {
	case CBOR:
		b, err := cborMode.Marshal(data)
		if err != nil {
			return nil, errors.Join(ErrSerialization, err)
		}
		return b, nil
	case JSON:
		var buf bytes.Buffer
		e := json.NewEncoder(&buf)
		e.SetEscapeHTML(false)
		if err := e.Encode(data); err != nil {
			return nil, errors.Join(ErrSerialization, err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	default:
		return nil, errors.Join(ErrSerialization, fmt.Errorf("unsupported encoding %s", enc))
	}
}

// normalizeNumbers replaces json.Number values inside decoded JSON trees
// (any, map[string]any, []any) with float64, so a number digests by value and
// never as its source text. Cycles are left in place for checkEncodable to report.
func normalizeNumbers(v any, path map[visit]struct{}) any {
	switch x := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return v
		}
		return f
	case map[string]any:
		if x == nil {
			return v
		}
		key := visit{ptr: reflect.ValueOf(x).Pointer(), typ: reflect.TypeOf(x)}
		if _, ok := path[key]; ok {
			return v
		}
		path[key] = struct{}{}
		defer delete(path, key)

		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeNumbers(e, path)
		}
		return out
	case []any:
		if x == nil {
			return v
		}
		key := visit{ptr: reflect.ValueOf(x).Pointer(), typ: reflect.TypeOf(x), len: len(x)}
		if _, ok := path[key]; ok {
			return v
		}
		path[key] = struct{}{}
		defer delete(path, key)

		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeNumbers(e, path)
		}
		return out
	default:
		return v
	}
}

// visit identifies a reference on the current traversal path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

var (
	jsonNumberType    = reflect.TypeFor[json.Number]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	cborMarshalerType = reflect.TypeFor[cbor.Marshaler]()
)

// checkEncodable walks v and rejects cycles and kinds no canonical encoding can represent.
// Shared references that do not form a cycle are allowed.
func checkEncodable(enc Encoding, v reflect.Value, path map[visit]struct{}) error {
	if !v.IsValid() {
		return nil
	}

	if selfMarshaling(enc, v.Type()) {
		return nil
	}

	if v.Type() == jsonNumberType {
		// CBOR would write a typed json.Number as a text string.
		if enc == CBOR {
			return fmt.Errorf("json.Number outside a decoded JSON tree is ambiguous in CBOR")
		}
		if _, err := strconv.ParseFloat(v.String(), 64); err != nil {
			return fmt.Errorf("invalid number %q", v.String())
		}
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return fmt.Errorf("invalid UTF-8 in string %q", v.String())
		}
		return nil

	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return fmt.Errorf("unsupported value type %s", v.Type())

	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkEncodable(enc, v.Elem(), path)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := path[key]; ok {
			return fmt.Errorf("cyclic reference through %s", v.Type())
		}
		path[key] = struct{}{}
		defer delete(path, key)
		return checkEncodable(enc, v.Elem(), path)

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := path[key]; ok {
			return fmt.Errorf("cyclic reference through %s", v.Type())
		}
		path[key] = struct{}{}
		defer delete(path, key)

		iter := v.MapRange()
		for iter.Next() {
			if err := checkEncodable(enc, iter.Key(), path); err != nil {
				return err
			}
			if err := checkEncodable(enc, iter.Value(), path); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if _, ok := path[key]; ok {
			return fmt.Errorf("cyclic reference through %s", v.Type())
		}
		path[key] = struct{}{}
		defer delete(path, key)
		return checkElements(enc, v, path)

	case reflect.Array:
		return checkElements(enc, v, path)

	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" || f.Tag.Get("cbor") == "-" {
				continue
			}
			if err := checkEncodable(enc, v.Field(i), path); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		return nil
	}

	return nil
}

func checkElements(enc Encoding, v reflect.Value, path map[visit]struct{}) error {
	// []byte is encoded as a string/byte string.
	if v.Type().Elem().Kind() == reflect.Uint8 {
		return nil
	}
	for i := range v.Len() {
		if err := checkEncodable(enc, v.Index(i), path); err != nil {
			return err
		}
	}
	return nil
}

// selfMarshaling reports whether t controls its own encoding, in which case
// its internals are not inspected.
func selfMarshaling(enc Encoding, t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	switch enc {
	case CBOR:
		return t.Implements(cborMarshalerType) || reflect.PointerTo(t).Implements(cborMarshalerType)
	default:
		return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
	}
}
