package copybook

import (
	"sort"

	"github.com/pkg/errors"
)

// Fields declares the fields of a schema by name. The order of the fields in
// the record is the order in which the fields were constructed, so listing
// them in a map literal keeps the order in which they are written.
type Fields map[string]Field

// Schema is the immutable, ordered layout of a record. Schemas may be shared
// between goroutines.
type Schema struct {
	name   string
	fields []member
	index  map[string]int
	length int

	autoTruncate bool
	codepoints   bool
}

type member struct {
	name  string
	field Field
}

// A SchemaOption configures a schema.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	parents      []*Schema
	autoTruncate *bool
	codepoints   bool
}

// Extends makes the schema inherit the fields of parents. Inherited fields
// come first, in the order the parents are given, followed by the fields of
// the new schema. A field redeclared under an inherited name keeps the
// inherited position.
func Extends(parents ...*Schema) SchemaOption {
	return func(c *schemaConfig) {
		c.parents = append(c.parents, parents...)
	}
}

// AutoTruncate sets whether records of the schema cut values that are too
// long for their field instead of failing. Without the option a schema
// inherits the setting of its first parent.
func AutoTruncate(on bool) SchemaOption {
	return func(c *schemaConfig) {
		c.autoTruncate = &on
	}
}

// UseCodepointIndices makes the schema measure lengths in UTF-8 codepoints
// instead of bytes.
func UseCodepointIndices() SchemaOption {
	return func(c *schemaConfig) {
		c.codepoints = true
	}
}

// NewSchema builds a schema named name from fields.
func NewSchema(name string, fields Fields, opts ...SchemaOption) (*Schema, error) {
	if name == "" {
		return nil, errors.New("copybook: schema name is empty")
	}
	var c schemaConfig
	for _, opt := range opts {
		opt(&c)
	}

	s := &Schema{name: name, index: make(map[string]int), codepoints: c.codepoints}
	for _, p := range c.parents {
		if p == nil {
			return nil, errors.Errorf("copybook: schema %s extends a nil schema", name)
		}
		for _, m := range p.fields {
			s.add(m)
		}
		s.codepoints = s.codepoints || p.codepoints
	}
	if len(c.parents) > 0 {
		s.autoTruncate = c.parents[0].autoTruncate
	}
	if c.autoTruncate != nil {
		s.autoTruncate = *c.autoTruncate
	}

	own := make([]member, 0, len(fields))
	for n, f := range fields {
		if f == nil {
			return nil, errors.Errorf("copybook: field %s.%s is nil", name, n)
		}
		own = append(own, member{n, f})
	}
	sort.Slice(own, func(i, j int) bool {
		si, sj := own[i].field.base().seq, own[j].field.base().seq
		if si != sj {
			return si < sj
		}
		return own[i].name < own[j].name
	})
	for _, m := range own {
		s.add(m)
	}

	for _, m := range s.fields {
		if m.field.Len() <= 0 {
			return nil, errors.Errorf("copybook: field %s.%s has length %d", name, m.name, m.field.Len())
		}
		s.length += m.field.Len()
	}
	return s, nil
}

// MustSchema is like NewSchema but panics if the schema is invalid. It
// simplifies declaring schemas as package variables.
func MustSchema(name string, fields Fields, opts ...SchemaOption) *Schema {
	s, err := NewSchema(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(m member) {
	if i, ok := s.index[m.name]; ok {
		s.fields[i] = m
		return
	}
	s.index[m.name] = len(s.fields)
	s.fields = append(s.fields, m)
}

// Name returns the name of the schema.
func (s *Schema) Name() string { return s.name }

// Len returns the length of every record of the schema.
func (s *Schema) Len() int { return s.length }

// AutoTruncate reports whether new records cut over-long values.
func (s *Schema) AutoTruncate() bool { return s.autoTruncate }

// Names returns the field names in record order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, m := range s.fields {
		names[i] = m.name
	}
	return names
}

// Field returns the field declared as name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].field, true
}

// New returns a record of the schema. Fields missing from values take their
// default; names the schema does not declare are ignored.
func (s *Schema) New(values Values) (*Record, error) {
	r := &Record{
		schema:       s,
		values:       make(map[string]interface{}, len(s.fields)),
		autoTruncate: s.autoTruncate,
	}
	for _, m := range s.fields {
		v, ok := values[m.name]
		if !ok {
			// Defaults are only evaluated when they are used. Records held
			// by a literal default are copied so records never share them.
			v = cloneValue(m.field.Default())
		}
		p, err := m.field.Parse(v)
		if err != nil {
			return nil, qualify(err, m.name)
		}
		r.values[m.name] = p
	}
	return r, nil
}

// Decode parses text, which must be exactly Len characters long, into a new
// record.
func (s *Schema) Decode(text string) (*Record, error) {
	raw := newRawValue(text, s.codepoints)
	if raw.len() != s.length {
		return nil, &LengthMismatchError{Schema: s.name, Have: raw.len(), Want: s.length}
	}

	r := &Record{
		schema:       s,
		values:       make(map[string]interface{}, len(s.fields)),
		autoTruncate: s.autoTruncate,
	}
	pos := 0
	for _, m := range s.fields {
		n := m.field.Len()
		chunk := raw.slice(pos, pos+n-1)
		v, err := m.field.Parse(chunk.data)
		if err != nil {
			return nil, qualify(err, m.name)
		}
		r.values[m.name] = v
		pos += n
	}
	return r, nil
}

// record converts v into a record of the schema. It accepts nil, record text,
// a *Record of the schema and maps of field values.
func (s *Schema) record(v interface{}) (*Record, error) {
	switch t := v.(type) {
	case nil:
		return s.New(nil)
	case string:
		return s.Decode(t)
	case *Record:
		if t == nil {
			return s.New(nil)
		}
		if t.schema != s {
			return nil, &UnsupportedValueError{Schema: s.name, Value: v}
		}
		return t, nil
	case Values:
		return s.New(t)
	case map[string]interface{}:
		return s.New(Values(t))
	}
	return nil, &UnsupportedValueError{Schema: s.name, Value: v}
}
