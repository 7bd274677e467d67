package copybook

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Record is one set of values laid out by a Schema.
//
// A Record owns its values; it is not safe for concurrent modification.
type Record struct {
	schema       *Schema
	values       map[string]interface{}
	autoTruncate bool
}

// clone returns a copy of r that shares no nested records with it.
func (r *Record) clone() *Record {
	c := &Record{
		schema:       r.schema,
		values:       make(map[string]interface{}, len(r.values)),
		autoTruncate: r.autoTruncate,
	}
	for k, v := range r.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Record:
		if t == nil {
			return t
		}
		return t.clone()
	case []*Record:
		l := make([]*Record, len(t))
		for i, rec := range t {
			l[i] = cloneValue(rec).(*Record)
		}
		return l
	}
	return v
}

// Marshal returns the fixed-width encoding of r.
func Marshal(r *Record) ([]byte, error) {
	s, err := r.Encode()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Unmarshal decodes data into a new record of s.
func Unmarshal(data []byte, s *Schema) (*Record, error) {
	return s.Decode(string(data))
}

// Schema returns the schema of the record.
func (r *Record) Schema() *Schema { return r.schema }

// Len returns the length of the encoded record.
func (r *Record) Len() int { return r.schema.length }

// AutoTruncate reports whether over-long values are cut to the length of
// their field.
func (r *Record) AutoTruncate() bool { return r.autoTruncate }

// SetAutoTruncate overrides the truncation setting inherited from the schema.
func (r *Record) SetAutoTruncate(on bool) { r.autoTruncate = on }

// Get returns the value of the field name.
func (r *Record) Get(name string) (interface{}, error) {
	if _, ok := r.schema.index[name]; !ok {
		return nil, &UnknownFieldError{Schema: r.schema.name, Field: name}
	}
	return r.values[name], nil
}

// Set converts v with the field's Parse rules and stores it.
func (r *Record) Set(name string, v interface{}) error {
	f, ok := r.schema.Field(name)
	if !ok {
		return &UnknownFieldError{Schema: r.schema.name, Field: name}
	}
	p, err := f.Parse(v)
	if err != nil {
		return qualify(err, name)
	}
	r.values[name] = p
	return nil
}

// Values returns a copy of the field values. Nested records are not copied.
func (r *Record) Values() Values {
	vs := make(Values, len(r.values))
	for k, v := range r.values {
		vs[k] = v
	}
	return vs
}

// Map returns the field values with nested records converted to maps and
// lists of records to slices of maps.
func (r *Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		switch t := v.(type) {
		case *Record:
			m[k] = t.Map()
		case []*Record:
			l := make([]map[string]interface{}, len(t))
			for i, rec := range t {
				l[i] = rec.Map()
			}
			m[k] = l
		default:
			m[k] = v
		}
	}
	return m
}

// FieldValue returns the encoded text of the field name.
func (r *Record) FieldValue(name string) (string, error) {
	i, ok := r.schema.index[name]
	if !ok {
		return "", &UnknownFieldError{Schema: r.schema.name, Field: name}
	}
	return r.format(r.schema.fields[i])
}

func (r *Record) format(m member) (string, error) {
	s, err := m.field.Format(r.values[m.name])
	if err != nil {
		return "", qualify(err, m.name)
	}
	return r.fit(m.name, s, m.field.Len())
}

// fit checks that s is n characters long, truncating it when the record
// allows.
func (r *Record) fit(name, s string, n int) (string, error) {
	raw := newRawValue(s, r.schema.codepoints)
	l := raw.len()
	if l > n {
		// Fields pad by character, byte indexed records count bytes.
		t := newRawValue(strings.TrimRight(s, " "), r.schema.codepoints)
		if t.len() <= n {
			s = t.data + strings.Repeat(" ", n-t.len())
			raw, l = newRawValue(s, r.schema.codepoints), n
		}
	}
	switch {
	case l == n:
		return s, nil
	case l > n && r.autoTruncate:
		log().Debug("copybook: truncated field value",
			slog.String("schema", r.schema.name),
			slog.String("field", name),
			slog.Int("length", l),
			slog.Int("max", n))
		if !r.schema.codepoints {
			return truncateBytes(s, n), nil
		}
		return raw.slice(0, n-1).data, nil
	}
	return "", &FieldOverflowError{Field: name, Value: s, Have: l, Max: n}
}

// truncateBytes cuts s to n bytes without splitting a UTF-8 sequence. The
// bytes of a cut character are replaced by spaces.
func truncateBytes(s string, n int) string {
	i := n
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i] + strings.Repeat(" ", n-i)
}

// Encode returns the record as a single fixed-width string of length Len.
func (r *Record) Encode() (string, error) {
	b := newLineBuilder(r.schema.length, r.schema.length, spaceChar)
	pos := 0
	for _, m := range r.schema.fields {
		s, err := r.format(m)
		if err != nil {
			return "", err
		}
		b.WriteValue(pos, newRawValue(s, r.schema.codepoints))
		pos += m.field.Len()
	}
	return b.String(), nil
}
