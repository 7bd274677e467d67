package copybook

import (
	"strings"
	"sync/atomic"
	"unicode"
)

// Field is one typed, fixed-length member of a Schema.
//
// Parse converts either a raw slice of record text or an already typed Go
// value into the value stored on a Record. Format renders a value into the
// text stored in the record. Format does not enforce Len; the Record checks
// the length of every formatted slice and truncates or rejects it.
//
// Fields are immutable blueprints and may be shared between schemas and
// goroutines.
type Field interface {
	// Len is the number of characters the field occupies in a record.
	Len() int
	// Default returns the value used when a Record is created without one.
	Default() interface{}
	Parse(v interface{}) (interface{}, error)
	Format(v interface{}) (string, error)

	base() *field
}

// fieldSeq orders fields by construction so that a schema declared with a
// map keeps its declaration order.
var fieldSeq atomic.Uint64

type field struct {
	length int
	seq    uint64
	def    defaultValue

	decimals  int
	layout    string
	empty     string
	separator string
}

// defaultValue is either a literal or a function evaluated on every call.
type defaultValue struct {
	set bool
	lit interface{}
	fn  func() interface{}
}

func (d defaultValue) value() interface{} {
	if d.fn != nil {
		return d.fn()
	}
	return d.lit
}

// A FieldOption configures a field at construction.
type FieldOption func(*field)

// Default sets a literal default value.
func Default(v interface{}) FieldOption {
	return func(f *field) {
		f.def = defaultValue{set: true, lit: v}
	}
}

// DefaultFunc sets a default computed by fn each time a Record is created
// without a value for the field.
func DefaultFunc(fn func() interface{}) FieldOption {
	return func(f *field) {
		f.def = defaultValue{set: true, fn: fn}
	}
}

// Decimals sets the number of digits after the decimal point of decimal
// fields. The default is 2.
func Decimals(n int) FieldOption {
	return func(f *field) {
		f.decimals = n
	}
}

// Layout sets the time layout of date fields, in the form understood by
// time.Parse.
func Layout(layout string) FieldOption {
	return func(f *field) {
		f.layout = layout
	}
}

// EmptyAs sets the text written for an empty date and recognised as empty
// when decoding. The default is all spaces.
func EmptyAs(s string) FieldOption {
	return func(f *field) {
		f.empty = s
	}
}

// Separator sets the separator written after a fragment line. The default
// is a newline.
func Separator(s string) FieldOption {
	return func(f *field) {
		f.separator = s
	}
}

func newField(length int, opts []FieldOption) field {
	f := field{
		length:    length,
		seq:       fieldSeq.Add(1),
		decimals:  2,
		layout:    "2006-01-02",
		separator: "\n",
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f *field) base() *field { return f }

func (f *field) Len() int { return f.length }

func (f *field) Default() interface{} {
	if !f.def.set {
		return nil
	}
	return f.def.value()
}

func (f *field) hasDefault() bool { return f.def.set }

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
