package copybook

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// IntegerField holds an int, right justified and padded with zeros.
type IntegerField struct {
	field
}

// Integer returns an integer field of length n.
func Integer(n int, opts ...FieldOption) *IntegerField {
	return &IntegerField{newField(n, opts)}
}

func (f *IntegerField) Parse(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := integerValue(v); ok {
		return int(n), nil
	}
	switch t := v.(type) {
	case float32, float64:
		return int(reflect.ValueOf(t).Float()), nil
	case decimal.Decimal:
		return int(t.IntPart()), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, convErr("integer", v, err)
		}
		return n, nil
	}
	return nil, convErr("integer", v, errors.Errorf("unsupported type %T", v))
}

func (f *IntegerField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	n, _ := p.(int)
	return PadZeros(f.length, n, AlignRight), nil
}

// DecimalField holds a float64 written with a literal decimal point and a
// fixed number of decimals, padded with zeros on the left.
type DecimalField struct {
	field
}

// Decimal returns a decimal field of length n. The length includes the
// point and the decimal digits.
func Decimal(n int, opts ...FieldOption) *DecimalField {
	return &DecimalField{newField(n, opts)}
}

func (f *DecimalField) Parse(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := integerValue(v); ok {
		return float64(n), nil
	}
	switch t := v.(type) {
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case decimal.Decimal:
		return t.InexactFloat64(), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, convErr("decimal", v, err)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, convErr("decimal", v, errors.New("not a finite number"))
		}
		return x, nil
	}
	return nil, convErr("decimal", v, errors.Errorf("unsupported type %T", v))
}

func (f *DecimalField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	x, _ := p.(float64)
	return PadDecimal(f.length, x, f.decimals), nil
}

// ImpliedDecimalField holds a decimal.Decimal written without a decimal
// point. The last Decimals digits of the text are the fraction.
type ImpliedDecimalField struct {
	field
}

// ImpliedDecimal returns an implied decimal field of length n.
func ImpliedDecimal(n int, opts ...FieldOption) *ImpliedDecimalField {
	return &ImpliedDecimalField{newField(n, opts)}
}

func (f *ImpliedDecimalField) Parse(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		d, err := impliedDigits(s, f.decimals)
		if err != nil {
			return nil, convErr("implied decimal", v, err)
		}
		return d, nil
	}
	return decimalValue("implied decimal", v)
}

func (f *ImpliedDecimalField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	d, _ := p.(decimal.Decimal)
	return PadImpliedDecimal(f.length, d, int32(f.decimals)), nil
}

// SignedImpliedDecimalField is an implied decimal whose last character is
// its sign, '+' or '-'.
type SignedImpliedDecimalField struct {
	field
}

// SignedImpliedDecimal returns a signed implied decimal field of length n,
// sign included.
func SignedImpliedDecimal(n int, opts ...FieldOption) *SignedImpliedDecimalField {
	return &SignedImpliedDecimalField{newField(n, opts)}
}

func (f *SignedImpliedDecimalField) Parse(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return decimalValue("signed implied decimal", v)
	}
	if s == "" {
		return nil, nil
	}
	sign, body := s[len(s)-1], strings.TrimSpace(s[:len(s)-1])
	if sign != '+' && sign != '-' && sign != ' ' {
		return nil, convErr("signed implied decimal", v, errors.Errorf("invalid sign %q", sign))
	}
	if body == "" {
		return nil, nil
	}
	d, err := impliedDigits(body, f.decimals)
	if err != nil {
		return nil, convErr("signed implied decimal", v, err)
	}
	if sign == '-' {
		d = d.Neg()
	}
	return d, nil
}

func (f *SignedImpliedDecimalField) Format(v interface{}) (string, error) {
	p, err := f.Parse(v)
	if err != nil {
		return "", err
	}
	d, _ := p.(decimal.Decimal)
	d = d.Round(int32(f.decimals))
	sign := "+"
	if d.Sign() < 0 {
		sign = "-"
	}
	return PadImpliedDecimal(f.length-1, d.Abs(), int32(f.decimals)) + sign, nil
}

func impliedDigits(s string, decimals int) (decimal.Decimal, error) {
	if !isDigits(strings.TrimPrefix(s, "-")) {
		return decimal.Zero, errors.Errorf("%q is not a number", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.WithStack(err)
	}
	return d.Shift(-int32(decimals)), nil
}

func decimalValue(typ string, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := integerValue(v); ok {
		return decimal.NewFromInt(n), nil
	}
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float32:
		return decimal.NewFromFloat32(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, convErr(typ, v, errors.New("not a finite number"))
		}
		return decimal.NewFromFloat(t), nil
	}
	return nil, convErr(typ, v, errors.Errorf("unsupported type %T", v))
}

// integerValue reports the value of v if it is of an integer kind that fits
// in an int64.
func integerValue(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}
