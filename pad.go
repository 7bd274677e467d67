package copybook

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// PadRight formats v with its default format and pads it with trailing spaces
// up to width. Longer values are returned unchanged.
func PadRight(width int, v interface{}) string {
	s := fmt.Sprint(v)
	return pad(s, width, spaceChar, AlignLeft)
}

// PadZeros formats the integer v and pads it with zeros up to width. With
// AlignRight the zeros go on the left and a minus sign stays in front of them.
// With AlignLeft the zeros go on the right.
func PadZeros[T constraints.Integer](width int, v T, align Alignment) string {
	s := fmt.Sprint(v)
	if align == AlignLeft {
		return pad(s, width, zeroChar, AlignLeft)
	}
	return zeroFill(s, width)
}

// PadDecimal formats v as a fixed point number with exactly decimals digits
// after the point and pads it with zeros on the left up to width. The point
// and the decimal digits count towards width.
func PadDecimal(width int, v float64, decimals int) string {
	return zeroFill(strconv.FormatFloat(v, 'f', decimals, 64), width)
}

// PadImpliedDecimal renders v like PadDecimal and then removes the decimal
// point, so the position of the point is implied by decimals. The result is
// width characters long for values that fit.
func PadImpliedDecimal(width int, v decimal.Decimal, decimals int32) string {
	s := v.Round(decimals).StringFixed(decimals)
	return zeroFill(strings.Replace(s, ".", "", 1), width)
}

// zeroFill pads s with zeros on the left up to width, keeping a leading
// minus sign in front of the zeros.
func zeroFill(s string, width int) string {
	if strings.HasPrefix(s, "-") {
		return "-" + pad(s[1:], width-1, zeroChar, AlignRight)
	}
	return pad(s, width, zeroChar, AlignRight)
}

func pad(s string, width int, c byte, align Alignment) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	fill := strings.Repeat(string(c), n)
	if align == AlignLeft {
		return s + fill
	}
	return fill + s
}
