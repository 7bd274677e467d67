package copybook

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateField holds a time.Time truncated to its date. Empty values are
// written as spaces, or as the EmptyAs text if one is configured.
type DateField struct {
	field
	dateOnly bool
}

// Date returns a date field of length n using the Layout option, which
// defaults to "2006-01-02".
func Date(n int, opts ...FieldOption) *DateField {
	return &DateField{field: newField(n, opts), dateOnly: true}
}

// DateTime returns a date and time field of length n. Set the layout with
// the Layout option.
func DateTime(n int, opts ...FieldOption) *DateField {
	return &DateField{field: newField(n, opts)}
}

func (f *DateField) kind() string {
	if f.dateOnly {
		return "date"
	}
	return "datetime"
}

func (f *DateField) Parse(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if t.IsZero() {
			return nil, nil
		}
		return f.narrow(t), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return f.Parse(*t)
	case string:
		if isBlank(t) || (f.empty != "" && trimRight(t) == trimRight(f.empty)) {
			return nil, nil
		}
		tm, err := time.Parse(f.layout, strings.TrimRight(t, " "))
		if err != nil {
			return nil, convErr(f.kind(), v, err)
		}
		return f.narrow(tm), nil
	}
	return nil, convErr(f.kind(), v, errors.Errorf("unsupported type %T", v))
}

func (f *DateField) narrow(t time.Time) time.Time {
	if !f.dateOnly {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (f *DateField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	t, ok := p.(time.Time)
	if !ok {
		return PadRight(f.length, f.empty), nil
	}
	return PadRight(f.length, t.Format(f.layout)), nil
}
