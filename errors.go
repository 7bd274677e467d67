package copybook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A LengthMismatchError describes input whose length does not match the
// declared length of the schema it is decoded with.
type LengthMismatchError struct {
	Schema string
	Have   int
	Want   int
}

func (e *LengthMismatchError) Error() string {
	return "copybook: fixed width record length is " + strconv.Itoa(e.Have) +
		" but should be " + strconv.Itoa(e.Want) + " (" + e.Schema + ")"
}

// A FieldOverflowError describes an encoded value that does not fit the
// declared length of its field.
//
// For list fields Have and Max count records instead of characters.
type FieldOverflowError struct {
	Field   string
	Value   string
	Have    int
	Max     int
	Records bool
}

func (e *FieldOverflowError) Error() string {
	switch {
	case e.Records:
		return fmt.Sprintf("copybook: '%s' contains %d records but can only have %d", e.Field, e.Have, e.Max)
	case e.Have < e.Max:
		return fmt.Sprintf("copybook: '%s' value '%s' is shorter than %d chars", e.Field, e.Value, e.Max)
	}
	return fmt.Sprintf("copybook: '%s' value '%s' is longer than %d chars", e.Field, e.Value, e.Max)
}

// A ConversionError describes a value that could not be converted to or from
// the representation of its field.
type ConversionError struct {
	Field string
	Value interface{}
	Type  string // kind of the field, e.g. "integer"
	Cause error
}

func (e *ConversionError) Error() string {
	s := fmt.Sprintf("copybook: cannot convert %q into %s field", fmt.Sprint(e.Value), e.Type)
	if e.Field != "" {
		s += " '" + e.Field + "'"
	}
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// An UnsupportedValueError describes a value of a Go type a container field
// cannot interpret.
type UnsupportedValueError struct {
	Field  string
	Schema string
	Value  interface{}
}

func (e *UnsupportedValueError) Error() string {
	s := fmt.Sprintf("copybook: value of type %T must be a string, a map or a %s record", e.Value, e.Schema)
	if e.Field != "" {
		s += " in field '" + e.Field + "'"
	}
	return s
}

// An UnknownFieldError describes a lookup of a field the schema does not declare.
type UnknownFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return "copybook: schema " + e.Schema + " has no field '" + e.Field + "'"
}

func convErr(typ string, v interface{}, cause error) error {
	return &ConversionError{Value: v, Type: typ, Cause: cause}
}

// qualify prefixes the field path carried by err with name. Errors without a
// field path are returned unchanged apart from the name being set.
func qualify(err error, name string) error {
	if err == nil {
		return nil
	}
	join := func(field string) string {
		switch {
		case field == "":
			return name
		case strings.HasPrefix(field, "["):
			return name + field
		}
		return name + "." + field
	}

	var (
		overflow    *FieldOverflowError
		conversion  *ConversionError
		unsupported *UnsupportedValueError
	)
	switch {
	case errors.As(err, &overflow):
		overflow.Field = join(overflow.Field)
	case errors.As(err, &conversion):
		conversion.Field = join(conversion.Field)
	case errors.As(err, &unsupported):
		unsupported.Field = join(unsupported.Field)
	}
	return err
}
