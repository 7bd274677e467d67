package copybook

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDefaults(t *testing.T) {
	assert.Nil(t, String(5).Default())
	assert.Equal(t, "ABC", String(5, Default("ABC")).Default())

	calls := 0
	f := String(15, DefaultFunc(func() interface{} {
		calls++
		return "Default Value"
	}))
	assert.Equal(t, 0, calls, "default must not be evaluated at declaration")
	assert.Equal(t, "Default Value", f.Default())
	assert.Equal(t, "Default Value", f.Default())
	assert.Equal(t, 2, calls)
}

func TestStringField(t *testing.T) {
	f := String(5)

	for _, tt := range []struct {
		name string
		in   interface{}
		want string
	}{
		{"padded", "AA", "AA   "},
		{"nil", nil, "     "},
		{"number", 10, "10   "},
		{"text marshaler", EncodableString{"foo", nil}, "foo  "},
		{"marshaler", upper("abcdefg"), "ABCDE"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			s, err := f.Format(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	for _, tt := range []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"number", 10, "10"},
		{"trailing padding", "AA   ", "AA"},
		{"blank", "     ", ""},
		{"nil", nil, nil},
		{"leading space kept", "  A  ", "  A"},
	} {
		t.Run("parse "+tt.name, func(t *testing.T) {
			v, err := f.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	_, err := f.Format(EncodableString{"foo", errors.New("boom")})
	var ce *ConversionError
	assert.True(t, errors.As(err, &ce))
}

func TestIntegerField(t *testing.T) {
	f := Integer(5)

	s, err := f.Format(12)
	require.NoError(t, err)
	assert.Equal(t, "00012", s)

	s, err = f.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "00000", s)

	s, err = f.Format("42")
	require.NoError(t, err)
	assert.Equal(t, "00042", s)

	v, err := f.Parse("10")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = f.Parse("     ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = f.Parse(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = f.Parse("0001A")
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "integer", ce.Type)

	_, err = f.Parse(true)
	assert.True(t, errors.As(err, &ce))
}

func TestDecimalField(t *testing.T) {
	s, err := Decimal(6, Decimals(1)).Format(10)
	require.NoError(t, err)
	assert.Equal(t, "0010.0", s)

	s, err = Decimal(7, Decimals(2)).Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "0000.00", s)

	f := Decimal(5)
	v, err := f.Parse("10.12")
	require.NoError(t, err)
	assert.Equal(t, 10.12, v)

	v, err = f.Parse("     ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = f.Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = f.Parse("0001A")
	var ce *ConversionError
	assert.True(t, errors.As(err, &ce))

	_, err = f.Parse("NaN")
	assert.True(t, errors.As(err, &ce))
}

func TestImpliedDecimalField(t *testing.T) {
	for _, tt := range []struct {
		length   int
		decimals int
		in       interface{}
		want     string
	}{
		{5, 0, 300, "00300"},
		{7, 2, 300.25, "0030025"},
		{12, 2, 30500.25325, "000003050025"},
		{10, 2, decimal.RequireFromString("75000.75"), "0007500075"},
		{8, 2, nil, "00000000"},
	} {
		s, err := ImpliedDecimal(tt.length, Decimals(tt.decimals)).Format(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	for _, tt := range []struct {
		decimals int
		in       interface{}
		want     string
	}{
		{2, "0000750033", "7500.33"},
		{2, 750.33, "750.33"},
		{0, "000750033", "750033"},
	} {
		v, err := ImpliedDecimal(10, Decimals(tt.decimals)).Parse(tt.in)
		require.NoError(t, err)
		require.IsType(t, decimal.Decimal{}, v)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(v.(decimal.Decimal)), "have %v", v)
	}

	f := ImpliedDecimal(10, Decimals(2))
	for _, in := range []interface{}{nil, "          "} {
		v, err := f.Parse(in)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	_, err := f.Parse("00007.5033")
	var ce *ConversionError
	assert.True(t, errors.As(err, &ce))
}

func TestSignedImpliedDecimalField(t *testing.T) {
	for _, tt := range []struct {
		length   int
		decimals int
		in       interface{}
		want     string
	}{
		{5, 0, 300, "0300+"},
		{7, 2, 300.25, "030025+"},
		{7, 2, -300.25, "030025-"},
		{12, 2, 30500.25325, "00003050025+"},
		{10, 2, decimal.RequireFromString("-75000.75"), "007500075-"},
		{8, 2, nil, "0000000+"},
	} {
		s, err := SignedImpliedDecimal(tt.length, Decimals(tt.decimals)).Format(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	for _, tt := range []struct {
		length   int
		decimals int
		in       interface{}
		want     string
	}{
		{10, 2, "000750033+", "7500.33"},
		{10, 2, "000750033-", "-7500.33"},
		{10, 2, -750.33, "-750.33"},
		{9, 0, "00750033 ", "750033"},
		{7, 2, "030025-", "-300.25"},
	} {
		v, err := SignedImpliedDecimal(tt.length, Decimals(tt.decimals)).Parse(tt.in)
		require.NoError(t, err)
		require.IsType(t, decimal.Decimal{}, v)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(v.(decimal.Decimal)), "have %v", v)
	}

	f := SignedImpliedDecimal(12, Decimals(2))
	for _, in := range []interface{}{nil, "            ", "           +"} {
		v, err := f.Parse(in)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	_, err := f.Parse("00000000100*")
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "invalid sign")
}

func TestDateField(t *testing.T) {
	f := Date(8, Layout("20060102"))

	s, err := f.Format(date(2011, 8, 31))
	require.NoError(t, err)
	assert.Equal(t, "20110831", s)

	for _, in := range []interface{}{nil, ""} {
		s, err = f.Format(in)
		require.NoError(t, err)
		assert.Equal(t, "        ", s)
	}

	v, err := f.Parse("20110831")
	require.NoError(t, err)
	assert.Equal(t, date(2011, 8, 31), v)

	v, err = f.Parse("        ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = f.Parse(time.Date(2011, 8, 31, 13, 14, 15, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date(2011, 8, 31), v, "date fields drop the time of day")

	_, err = Date(5).Parse("0001A")
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "date", ce.Type)
}

func TestDateFieldEmptyAs(t *testing.T) {
	f := Date(8, Layout("20060102"), EmptyAs("00000000"))

	s, err := f.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "00000000", s)

	v, err := f.Parse("00000000")
	require.NoError(t, err)
	assert.Nil(t, v)

	short := Date(10, EmptyAs("00000000"))
	s, err = short.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "00000000  ", s)

	v, err = short.Parse(s)
	require.NoError(t, err)
	assert.Nil(t, v)

	schema := MustSchema("EmptyDate", Fields{"d": Date(10, EmptyAs("00000000"))})
	r, err := schema.New(nil)
	require.NoError(t, err)
	text, err := r.Encode()
	require.NoError(t, err)
	back, err := schema.Decode(text)
	require.NoError(t, err)
	v, _ = back.Get("d")
	assert.Nil(t, v)
}

func TestDateTimeField(t *testing.T) {
	f := DateTime(14, Layout("20060102150405"))
	dt := time.Date(2012, 1, 1, 1, 1, 1, 0, time.UTC)

	s, err := f.Format(dt)
	require.NoError(t, err)
	assert.Equal(t, "20120101010101", s)

	for _, in := range []interface{}{nil, ""} {
		s, err = f.Format(in)
		require.NoError(t, err)
		assert.Equal(t, "              ", s)

		v, err := f.Parse(in)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	v, err := f.Parse("20120101010101")
	require.NoError(t, err)
	assert.Equal(t, dt, v)

	v, err = f.Parse(date(2012, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, date(2012, 1, 1), v)

	v, err = f.Parse(dt)
	require.NoError(t, err)
	assert.Equal(t, dt, v)
}

func TestBooleanField(t *testing.T) {
	f := Boolean()
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, false, f.Default())

	for _, tt := range []struct {
		in   interface{}
		want string
	}{
		{true, "Y"},
		{false, "N"},
		{" ", "N"},
		{"", "N"},
		{"Y", "Y"},
	} {
		s, err := f.Format(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	var ce *ConversionError
	_, err := f.Format(nil)
	assert.True(t, errors.As(err, &ce))
	_, err = f.Format("X")
	assert.True(t, errors.As(err, &ce))
	_, err = f.Parse("X")
	assert.True(t, errors.As(err, &ce))

	assert.Equal(t, true, Boolean(Default(true)).Default())
}

func TestNullBooleanField(t *testing.T) {
	f := NullBoolean()
	assert.Nil(t, f.Default())

	for _, tt := range []struct {
		in   interface{}
		want string
	}{
		{true, "Y"},
		{false, "N"},
		{" ", " "},
		{nil, " "},
	} {
		s, err := f.Format(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	_, err := f.Format("My Cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be boolean or nil, you gave 'My Cat'")

	for _, tt := range []struct {
		in   interface{}
		want interface{}
	}{
		{"Y", true},
		{"N", false},
		{" ", nil},
		{true, true},
	} {
		v, err := f.Parse(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}
}

func TestPostalCodeField(t *testing.T) {
	f := PostalCode()
	assert.Equal(t, 9, f.Len())

	for _, tt := range []struct {
		in   interface{}
		want string
	}{
		{"AA", "AA       "},
		{nil, "         "},
		{99, "990000000"},
		{"99", "990000000"},
		{"07030", "070300000"},
		{"K1A 0B1", "K1A 0B1  "},
	} {
		s, err := f.Format(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	v, err := f.Parse("K1A XXX  ")
	require.NoError(t, err)
	assert.Equal(t, "K1A XXX", v)

	v, err = f.Parse(50401)
	require.NoError(t, err)
	assert.Equal(t, "50401", v)
}

func TestLiteralField(t *testing.T) {
	f := NewLine()
	assert.Equal(t, 1, f.Len())

	s, err := f.Format("\n")
	require.NoError(t, err)
	assert.Equal(t, "\n", s)

	s, err = f.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "\n", s)

	v, err := f.Parse("\n")
	require.NoError(t, err)
	assert.Equal(t, "\n", v)

	assert.Equal(t, "|", Literal("|").Default())
}
