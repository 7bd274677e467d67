package copybook

import (
	"encoding"
	"fmt"
	"strings"
)

// StringField holds text, left justified and padded with spaces.
type StringField struct {
	field
}

// String returns a text field of length n.
func String(n int, opts ...FieldOption) *StringField {
	return &StringField{newField(n, opts)}
}

func (f *StringField) Parse(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, err := stringify(v)
	if err != nil {
		return nil, convErr("string", v, err)
	}
	return trimRight(s), nil
}

func (f *StringField) Format(v interface{}) (string, error) {
	if v == nil {
		return PadRight(f.length, ""), nil
	}
	if m, ok := v.(Marshaler); ok {
		s, err := m.MarshalCopybook(f.length)
		if err != nil {
			return "", convErr("string", v, err)
		}
		return PadRight(f.length, s), nil
	}
	s, err := stringify(v)
	if err != nil {
		return "", convErr("string", v, err)
	}
	return PadRight(f.length, s), nil
}

func stringify(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		return string(b), err
	}
	return fmt.Sprint(v), nil
}

// PostalCodeField holds a nine character postal code. Numeric codes are
// padded with zeros on the right, others with spaces.
type PostalCodeField struct {
	field
}

// PostalCode returns a postal code field.
func PostalCode(opts ...FieldOption) *PostalCodeField {
	return &PostalCodeField{newField(9, opts)}
}

func (f *PostalCodeField) Parse(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, err := stringify(v)
	if err != nil {
		return nil, convErr("postal code", v, err)
	}
	return trimRight(s), nil
}

func (f *PostalCodeField) Format(v interface{}) (string, error) {
	if v == nil {
		return PadRight(f.length, ""), nil
	}
	if n, ok := integerValue(v); ok && n >= 0 {
		return PadZeros(f.length, n, AlignLeft), nil
	}
	s, err := stringify(v)
	if err != nil {
		return "", convErr("postal code", v, err)
	}
	if s = strings.TrimSpace(s); isDigits(s) {
		return pad(s, f.length, zeroChar, AlignLeft), nil
	}
	return PadRight(f.length, s), nil
}

// LiteralField always holds the same text. It is used to separate
// sub-records, usually with a newline.
type LiteralField struct {
	field
	literal string
}

// Literal returns a field that always encodes to s.
func Literal(s string) *LiteralField {
	f := &LiteralField{field: newField(len(s), nil), literal: s}
	f.def = defaultValue{set: true, lit: s}
	return f
}

// NewLine returns a one character field holding a newline.
func NewLine() *LiteralField {
	return Literal("\n")
}

func (f *LiteralField) Parse(v interface{}) (interface{}, error) {
	if v == nil {
		return f.literal, nil
	}
	return fmt.Sprint(v), nil
}

func (f *LiteralField) Format(interface{}) (string, error) {
	return f.literal, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
