package copybook

import (
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// schemaFile is the TOML form of a set of schemas:
//
//	[[schema]]
//	name = "Phone"
//
//	  [[schema.field]]
//	  name = "area_code"
//	  type = "integer"
//	  length = 3
type schemaFile struct {
	Schema []schemaDecl `toml:"schema"`
}

type schemaDecl struct {
	Name         string      `toml:"name"`
	Extends      []string    `toml:"extends"`
	AutoTruncate *bool       `toml:"auto_truncate"`
	Codepoints   bool        `toml:"codepoints"`
	Field        []fieldDecl `toml:"field"`
}

type fieldDecl struct {
	Name      string      `toml:"name"`
	Type      string      `toml:"type"`
	Length    int         `toml:"length"`
	Default   interface{} `toml:"default"`
	Decimals  *int        `toml:"decimals"`
	Layout    string      `toml:"layout"`
	Empty     string      `toml:"empty"`
	Literal   string      `toml:"literal"`
	Separator string      `toml:"separator"`
	Record    string      `toml:"record"`
	Count     int         `toml:"count"`
}

// LoadSchemaFile reads schemas from the TOML file at path. See LoadSchemas.
func LoadSchemaFile(path string, reg *Registry) ([]*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "copybook: open schema file")
	}
	defer f.Close()
	return LoadSchemas(f, reg)
}

// LoadSchemas reads schemas declared in TOML from r and registers them in
// reg. Schemas may extend or embed schemas declared earlier in the same
// input or already present in reg. A nil reg uses a fresh registry.
//
// Nothing is registered unless every schema of the input is valid.
//
// Field types are string, integer, decimal, implied_decimal,
// signed_implied_decimal, date, datetime, boolean, null_boolean,
// postal_code, literal, newline, fragment, fragment_line and list.
func LoadSchemas(r io.Reader, reg *Registry) ([]*Schema, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	var file schemaFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, errors.Wrap(err, "copybook: decode schema file")
	}

	pending := make(map[string]*Schema, len(file.Schema))
	lookup := func(name string) (*Schema, bool) {
		if s, ok := pending[name]; ok {
			return s, true
		}
		return reg.Lookup(name)
	}

	schemas := make([]*Schema, 0, len(file.Schema))
	for _, decl := range file.Schema {
		if _, dup := lookup(decl.Name); dup {
			return nil, errors.Errorf("copybook: schema %s is already registered", decl.Name)
		}
		s, err := decl.build(lookup)
		if err != nil {
			return nil, err
		}
		pending[s.name] = s
		schemas = append(schemas, s)
	}
	if err := reg.Register(schemas...); err != nil {
		return nil, err
	}
	return schemas, nil
}

func (d schemaDecl) build(lookup func(string) (*Schema, bool)) (*Schema, error) {
	var opts []SchemaOption
	for _, name := range d.Extends {
		p, ok := lookup(name)
		if !ok {
			return nil, errors.Errorf("copybook: schema %s extends unknown schema %s", d.Name, name)
		}
		opts = append(opts, Extends(p))
	}
	if d.AutoTruncate != nil {
		opts = append(opts, AutoTruncate(*d.AutoTruncate))
	}
	if d.Codepoints {
		opts = append(opts, UseCodepointIndices())
	}

	fields := make(Fields, len(d.Field))
	for _, fd := range d.Field {
		if _, dup := fields[fd.Name]; dup {
			return nil, errors.Errorf("copybook: schema %s declares field %s twice", d.Name, fd.Name)
		}
		f, err := fd.build(lookup)
		if err != nil {
			return nil, errors.Wrapf(err, "copybook: schema %s field %s", d.Name, fd.Name)
		}
		fields[fd.Name] = f
	}
	return NewSchema(d.Name, fields, opts...)
}

func (d fieldDecl) build(lookup func(string) (*Schema, bool)) (Field, error) {
	var opts []FieldOption
	if d.Default != nil {
		opts = append(opts, Default(tomlValue(d.Default)))
	}
	if d.Decimals != nil {
		opts = append(opts, Decimals(*d.Decimals))
	}
	if d.Layout != "" {
		opts = append(opts, Layout(d.Layout))
	}
	if d.Empty != "" {
		opts = append(opts, EmptyAs(d.Empty))
	}
	if d.Separator != "" {
		opts = append(opts, Separator(d.Separator))
	}

	nested := func() (*Schema, error) {
		s, ok := lookup(d.Record)
		if !ok {
			return nil, errors.Errorf("unknown record schema %q", d.Record)
		}
		return s, nil
	}

	switch d.Type {
	case "string":
		return String(d.Length, opts...), nil
	case "integer":
		return Integer(d.Length, opts...), nil
	case "decimal":
		return Decimal(d.Length, opts...), nil
	case "implied_decimal":
		return ImpliedDecimal(d.Length, opts...), nil
	case "signed_implied_decimal":
		return SignedImpliedDecimal(d.Length, opts...), nil
	case "date":
		return Date(d.Length, opts...), nil
	case "datetime":
		return DateTime(d.Length, opts...), nil
	case "boolean":
		return Boolean(opts...), nil
	case "null_boolean":
		return NullBoolean(opts...), nil
	case "postal_code":
		return PostalCode(opts...), nil
	case "literal":
		if d.Literal == "" {
			return nil, errors.New("literal field needs a literal")
		}
		return Literal(d.Literal), nil
	case "newline":
		return NewLine(), nil
	case "fragment":
		s, err := nested()
		if err != nil {
			return nil, err
		}
		return Fragment(s, opts...), nil
	case "fragment_line":
		s, err := nested()
		if err != nil {
			return nil, err
		}
		return FragmentLine(s, opts...), nil
	case "list":
		s, err := nested()
		if err != nil {
			return nil, err
		}
		return List(s, d.Count, opts...), nil
	}
	return nil, errors.Errorf("unknown field type %q", d.Type)
}

// tomlValue converts TOML local dates and times into time.Time.
func tomlValue(v interface{}) interface{} {
	switch t := v.(type) {
	case toml.LocalDate:
		return t.AsTime(time.UTC)
	case toml.LocalDateTime:
		return t.AsTime(time.UTC)
	}
	return v
}
