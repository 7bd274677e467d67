package copybook

import (
	"strings"
	"time"
)

var (
	recordOne = MustSchema("RecordOne", Fields{
		"field_one": String(5, Default("AA")),
		"field_two": Integer(7),
	})

	recordTwo = MustSchema("RecordTwo", Fields{
		"field_three": Decimal(9),
		"field_four":  Date(2, Layout("02")),
	}, Extends(recordOne), AutoTruncate(true))

	recordThree = MustSchema("RecordThree", Fields{
		"frag":        Fragment(recordOne),
		"other_field": String(3, Default("BBB")),
	})

	recordFour = MustSchema("RecordFour", Fields{
		"frag":        FragmentLine(recordOne),
		"other_field": String(3, Default("EEE")),
	})

	recordFive = MustSchema("RecordFive", Fields{
		"garf":     Fragment(recordFour),
		"new_line": NewLine(),
		"threeve":  List(recordThree, 2),
	})

	recordSix = MustSchema("RecordSix", Fields{
		"first":  Boolean(),
		"second": Boolean(),
		"third":  Boolean(),
	})
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EncodableString is a string that implements the encoding TextUnmarshaler and TextMarshaler interface.
// This is useful for testing.
type EncodableString struct {
	S   string
	Err error
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EncodableString) UnmarshalText(text []byte) error {
	s.S = string(text)
	return s.Err
}

// MarshalText implements encoding.TextMarshaler.
func (s EncodableString) MarshalText() ([]byte, error) {
	return []byte(s.S), s.Err
}

// upper implements Marshaler.
type upper string

func (u upper) MarshalCopybook(width int) (string, error) {
	s := string(u)
	if len(s) > width {
		s = s[:width]
	}
	return strings.ToUpper(s), nil
}
