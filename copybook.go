// Package copybook converts between flat fixed-width records, in the style of
// COBOL copybooks, and typed Go values.
//
// A Schema is an ordered list of named fields. Each field has a fixed length
// and its own rules for padding, signs and decimal places, so a record
// encodes to a single string whose length is known from the schema alone.
// Fields may embed other schemas, once (Fragment) or a fixed number of times
// (List).
//
//	var Phone = copybook.MustSchema("Phone", copybook.Fields{
//		"area_code":   copybook.Integer(3),
//		"prefix":      copybook.Integer(3),
//		"line_number": copybook.Integer(4),
//	})
//
//	r, err := Phone.Decode("5558675309")
package copybook

// Marshaler is the interface implemented by values that can render
// themselves into a string field.
//
// MarshalCopybook is given the width of the field. Shorter results are padded
// with spaces; longer results are rejected or truncated by the record.
type Marshaler interface {
	MarshalCopybook(width int) (string, error)
}

// Values is a bag of field values keyed by field name.
type Values map[string]interface{}
