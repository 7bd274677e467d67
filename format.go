package copybook

// Alignment selects which side of a padded value its content sits on.
type Alignment string

const (
	// AlignRight keeps the value on the right and pads on the left, the usual
	// convention for numbers.
	AlignRight Alignment = "right"
	// AlignLeft keeps the value on the left and pads on the right.
	AlignLeft Alignment = "left"
)

const (
	spaceChar = ' '
	zeroChar  = '0'
)
