package copybook

import (
	"encoding"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
)

// Struct fields are bound to record fields with a tag naming the record
// field:
//
//	type Phone struct {
//		AreaCode int `copybook:"area_code"`
//	}
//
// Untagged fields and fields tagged "-" are ignored.
const tagName = "copybook"

// parseTag returns the record field name of a struct tag.
func parseTag(tag string) (name string, ok bool) {
	name = strings.TrimSpace(strings.Split(tag, ",")[0])
	if name == "" || name == "-" {
		return "", false
	}
	return name, true
}

type structSpec struct {
	fieldSpecs []fieldSpec
}

type fieldSpec struct {
	index int
	name  string
}

func buildStructSpec(t reflect.Type) structSpec {
	var ss structSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := parseTag(f.Tag.Get(tagName))
		if !ok {
			continue
		}
		ss.fieldSpecs = append(ss.fieldSpecs, fieldSpec{index: i, name: name})
	}
	return ss
}

var structSpecCache = xsync.NewMap[reflect.Type, structSpec]()

// cachedStructSpec is like buildStructSpec but cached to prevent duplicate work.
func cachedStructSpec(t reflect.Type) structSpec {
	if ss, ok := structSpecCache.Load(t); ok {
		return ss
	}
	ss, _ := structSpecCache.LoadOrStore(t, buildStructSpec(t))
	return ss
}

// An InvalidBindError describes an invalid argument passed to Scan or
// NewFrom. The argument must be a struct or a non-nil pointer to one.
type InvalidBindError struct {
	Type reflect.Type
}

func (e *InvalidBindError) Error() string {
	if e.Type == nil {
		return "copybook: bind(nil)"
	}
	return "copybook: bind(non-struct " + e.Type.String() + ")"
}

// Scan copies the record's values into the tagged fields of the struct dst
// points to. Fragments fill nested structs and lists fill slices of structs.
func (r *Record) Scan(dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &InvalidBindError{reflect.TypeOf(dst)}
	}
	return r.scan(rv.Elem())
}

func (r *Record) scan(v reflect.Value) error {
	for _, fs := range cachedStructSpec(v.Type()).fieldSpecs {
		val, ok := r.values[fs.name]
		if !ok {
			continue
		}
		fv := v.Field(fs.index)
		if err := setValue(fv, val); err != nil {
			var ce *ConversionError
			if !errors.As(err, &ce) {
				err = &ConversionError{Value: val, Type: fv.Type().String(), Cause: err}
			}
			return qualify(err, fs.name)
		}
	}
	return nil
}

var (
	textUnmarshalerType = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()
	decimalType         = reflect.TypeOf(decimal.Decimal{})
)

func setValue(dst reflect.Value, val interface{}) error {
	if val == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(val)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch t := val.(type) {
	case *Record:
		if dst.Kind() == reflect.Ptr {
			return setPtr(dst, val)
		}
		if dst.Kind() != reflect.Struct {
			return errors.Errorf("cannot scan a record into %s", dst.Type())
		}
		return t.scan(dst)
	case []*Record:
		if dst.Kind() != reflect.Slice {
			return errors.Errorf("cannot scan a list into %s", dst.Type())
		}
		s := reflect.MakeSlice(dst.Type(), len(t), len(t))
		for i, rec := range t {
			if err := setValue(s.Index(i), rec); err != nil {
				var ce *ConversionError
				if !errors.As(err, &ce) {
					err = &ConversionError{Value: rec, Type: dst.Type().Elem().String(), Cause: err}
				}
				return qualify(err, index(i))
			}
		}
		dst.Set(s)
		return nil
	case string:
		if dst.CanAddr() && dst.Addr().Type().Implements(textUnmarshalerType) {
			return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(t))
		}
	case decimal.Decimal:
		switch dst.Kind() {
		case reflect.Float32, reflect.Float64:
			dst.SetFloat(t.InexactFloat64())
			return nil
		case reflect.String:
			dst.SetString(t.String())
			return nil
		}
	}

	switch {
	case dst.Kind() == reflect.Ptr:
		return setPtr(dst, val)
	case dst.Kind() == reflect.String && src.Kind() != reflect.String:
		// Converting integers to strings would yield runes.
		return errors.Errorf("cannot assign %T to %s", val, dst.Type())
	case src.Type().ConvertibleTo(dst.Type()) && dst.Type() != decimalType:
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return errors.Errorf("cannot assign %T to %s", val, dst.Type())
}

func setPtr(dst reflect.Value, val interface{}) error {
	p := reflect.New(dst.Type().Elem())
	if err := setValue(p.Elem(), val); err != nil {
		return err
	}
	dst.Set(p)
	return nil
}

// NewFrom returns a record of the schema holding the tagged fields of the
// struct src. Nested structs are used for fragments and slices of structs
// for lists.
func (s *Schema) NewFrom(src interface{}) (*Record, error) {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &InvalidBindError{reflect.TypeOf(src)}
	}
	return s.New(s.valuesOf(rv))
}

type nestedField interface {
	Schema() *Schema
}

func (s *Schema) valuesOf(v reflect.Value) Values {
	vs := make(Values)
	for _, fs := range cachedStructSpec(v.Type()).fieldSpecs {
		f, ok := s.Field(fs.name)
		if !ok {
			continue
		}
		fv := v.Field(fs.index)
		for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
			if fv.IsNil() {
				break
			}
			fv = fv.Elem()
		}
		if (fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface) && fv.IsNil() {
			vs[fs.name] = nil
			continue
		}

		nf, nested := f.(nestedField)
		switch {
		case nested && fv.Kind() == reflect.Struct && fv.Type() != reflect.TypeOf(Record{}):
			vs[fs.name] = nf.Schema().valuesOf(fv)
		case nested && fv.Kind() == reflect.Slice && isStructSlice(fv.Type()):
			list := make([]Values, fv.Len())
			for i := range list {
				ev := fv.Index(i)
				for ev.Kind() == reflect.Ptr && !ev.IsNil() {
					ev = ev.Elem()
				}
				if ev.Kind() == reflect.Struct {
					list[i] = nf.Schema().valuesOf(ev)
				}
			}
			vs[fs.name] = list
		default:
			vs[fs.name] = fv.Interface()
		}
	}
	return vs
}

func isStructSlice(t reflect.Type) bool {
	e := t.Elem()
	for e.Kind() == reflect.Ptr {
		e = e.Elem()
	}
	return e.Kind() == reflect.Struct
}
