package copybook

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FragmentField embeds a complete record of another schema. Its value is
// always a *Record of that schema.
type FragmentField struct {
	field
	schema *Schema
}

// Fragment returns a field holding one record of s.
func Fragment(s *Schema, opts ...FieldOption) *FragmentField {
	return &FragmentField{field: newField(s.Len(), opts), schema: s}
}

// Schema returns the schema of the embedded record.
func (f *FragmentField) Schema() *Schema { return f.schema }

func (f *FragmentField) Parse(v interface{}) (interface{}, error) {
	return f.schema.record(v)
}

func (f *FragmentField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	return p.(*Record).Encode()
}

// FragmentLineField is a FragmentField followed by a separator, a newline
// unless the Separator option says otherwise.
type FragmentLineField struct {
	FragmentField
}

// FragmentLine returns a field holding one record of s followed by a
// separator.
func FragmentLine(s *Schema, opts ...FieldOption) *FragmentLineField {
	f := &FragmentLineField{*Fragment(s, opts...)}
	f.length += len(f.separator)
	return f
}

func (f *FragmentLineField) Parse(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok && strings.HasSuffix(s, f.separator) &&
		newRawValue(s, f.schema.codepoints).len() == f.length {
		v = strings.TrimSuffix(s, f.separator)
	}
	return f.FragmentField.Parse(v)
}

func (f *FragmentLineField) Format(v interface{}) (string, error) {
	s, err := f.FragmentField.Format(v)
	if err != nil {
		return "", err
	}
	return s + f.separator, nil
}

// ListField holds a fixed number of records of another schema, like a COBOL
// OCCURS clause. Its value is a []*Record. Lists shorter than the count are
// padded with default records when encoded.
type ListField struct {
	field
	schema *Schema
}

// List returns a field holding count records of s.
func List(s *Schema, count int, opts ...FieldOption) *ListField {
	return &ListField{field: newField(count, opts), schema: s}
}

// Len returns the number of characters taken by all records of the list.
func (f *ListField) Len() int { return f.length * f.schema.Len() }

// Count returns the number of records the list holds.
func (f *ListField) Count() int { return f.length }

// Schema returns the schema of the listed records.
func (f *ListField) Schema() *Schema { return f.schema }

func (f *ListField) Parse(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return []*Record{}, nil
	case string:
		return f.split(t)
	case []*Record:
		return f.records(len(t), func(i int) interface{} { return t[i] })
	case []Values:
		return f.records(len(t), func(i int) interface{} { return t[i] })
	case []map[string]interface{}:
		return f.records(len(t), func(i int) interface{} { return t[i] })
	case []interface{}:
		return f.records(len(t), func(i int) interface{} { return t[i] })
	}
	return nil, &UnsupportedValueError{Schema: f.schema.name, Value: v}
}

func (f *ListField) records(n int, elem func(i int) interface{}) ([]*Record, error) {
	out := make([]*Record, 0, n)
	for i := 0; i < n; i++ {
		e := elem(i)
		if _, ok := e.(string); ok {
			return nil, qualify(&UnsupportedValueError{Schema: f.schema.name, Value: e}, index(i))
		}
		r, err := f.schema.record(e)
		if err != nil {
			return nil, qualify(err, index(i))
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *ListField) split(s string) ([]*Record, error) {
	raw := newRawValue(s, f.schema.codepoints)
	if raw.len() != f.Len() {
		return nil, &LengthMismatchError{Schema: f.schema.name, Have: raw.len(), Want: f.Len()}
	}
	n := f.schema.Len()
	out := make([]*Record, f.length)
	for i := range out {
		chunk := raw.slice(i*n, (i+1)*n-1)
		r, err := f.schema.Decode(chunk.data)
		if err != nil {
			return nil, qualify(err, index(i))
		}
		out[i] = r
	}
	return out, nil
}

func (f *ListField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	recs := p.([]*Record)
	if len(recs) > f.length {
		return "", &FieldOverflowError{Have: len(recs), Max: f.length, Records: true}
	}

	var sb strings.Builder
	for i := 0; i < f.length; i++ {
		r := (*Record)(nil)
		if i < len(recs) {
			r = recs[i]
		} else if r, err = f.schema.New(nil); err != nil {
			return "", qualify(err, index(i))
		}
		s, err := r.Encode()
		if err != nil {
			return "", qualify(err, index(i))
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// A Selector picks the schema a redefined area is decoded with. It is given
// the raw text of the area.
type Selector func(raw string) (*Schema, error)

// RedefinesField is an area of a record that holds records of different
// schemas, like a COBOL REDEFINES clause. The schema is chosen from the raw
// text by a Selector. Every selectable schema must have the field's length.
type RedefinesField struct {
	field
	selector Selector
}

// Redefines returns a field of length n decoded with the schema sel picks.
func Redefines(n int, sel Selector, opts ...FieldOption) *RedefinesField {
	return &RedefinesField{field: newField(n, opts), selector: sel}
}

func (f *RedefinesField) Parse(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Record:
		if t.Len() != f.length {
			return nil, &FieldOverflowError{Value: t.schema.name, Have: t.Len(), Max: f.length}
		}
		return t, nil
	case string:
		s, err := f.selector(t)
		if err != nil {
			return nil, convErr("redefined", v, err)
		}
		if s == nil {
			return nil, nil
		}
		if s.Len() != f.length {
			return nil, convErr("redefined", v, errors.Errorf("schema %s has length %d", s.name, s.Len()))
		}
		return s.Decode(t)
	}
	return nil, &UnsupportedValueError{Value: v, Schema: "selected"}
}

func (f *RedefinesField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	if p == nil {
		return PadRight(f.length, ""), nil
	}
	return p.(*Record).Encode()
}
