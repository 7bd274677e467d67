package copybook

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	yes = "Y"
	no  = "N"
)

// BooleanField holds a bool written as "Y" or "N". A blank slice decodes to
// false.
type BooleanField struct {
	field
}

// Boolean returns a one character boolean field. Its default is false.
func Boolean(opts ...FieldOption) *BooleanField {
	f := &BooleanField{newField(1, opts)}
	if !f.hasDefault() {
		f.def = defaultValue{set: true, lit: false}
	}
	return f
}

func (f *BooleanField) Parse(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		switch strings.TrimSpace(t) {
		case yes:
			return true, nil
		case no, "":
			return false, nil
		}
	}
	return nil, convErr("boolean", v, errors.New("value must be Y, N or blank"))
}

func (f *BooleanField) Format(v interface{}) (string, error) {
	if v == nil {
		return "", convErr("boolean", v, errors.New("value must be a boolean"))
	}
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	if p.(bool) {
		return yes, nil
	}
	return no, nil
}

// NullBooleanField is a boolean that may be unset. Unset values are written
// as a space.
type NullBooleanField struct {
	field
}

// NullBoolean returns a one character nullable boolean field.
func NullBoolean(opts ...FieldOption) *NullBooleanField {
	return &NullBooleanField{newField(1, opts)}
}

func (f *NullBooleanField) Parse(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	case *bool:
		if t == nil {
			return nil, nil
		}
		return *t, nil
	case string:
		switch strings.TrimSpace(t) {
		case yes:
			return true, nil
		case no:
			return false, nil
		case "":
			return nil, nil
		}
	}
	return nil, convErr("nullable boolean", v, errors.Errorf("value must be boolean or nil, you gave '%v'", v))
}

func (f *NullBooleanField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	switch p {
	case true:
		return yes, nil
	case false:
		return no, nil
	}
	return " ", nil
}
