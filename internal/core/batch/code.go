// Package batch provides the manufacturing batch-code value type and its
// grammar. A batch code is category+year prefix, zero-padded sequence number
// and an optional single-letter suffix (e.g. SFH25045A).
package batch

import (
	"fmt"
)

// MinNumberWidth is the minimum zero-padded width of the numeric part.
const MinNumberWidth = 3

// Category determines the prefix letter and which counter is consulted.
type Category string

const (
	CategoryHuman      Category = "Human"
	CategoryVeterinary Category = "Veterinary"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryHuman || c == CategoryVeterinary
}

// Letter returns the prefix letter for the category.
func (c Category) Letter() string {
	if c == CategoryVeterinary {
		return "V"
	}
	return "H"
}

// DefaultPrefix synthesizes the prefix used when the user supplies none:
// "SF" + category letter + last two digits of the year.
func (c Category) DefaultPrefix(year int) string {
	return fmt.Sprintf("SF%s%02d", c.Letter(), year%100)
}

// Code is a structured batch code. The zero value is not a valid code;
// construct via Parse or NewCode.
type Code struct {
	// Prefix is the category letter-code plus 2-digit year, e.g. "SFH25".
	Prefix string

	// Number is the sequence number within the prefix.
	Number int

	// NumberWidth is the zero-padded digit width the code was written with.
	NumberWidth int

	// Suffix is "" or a single uppercase letter.
	Suffix string
}

// NewCode builds a code, clamping the width to the minimum.
func NewCode(prefix string, number, width int, suffix string) Code {
	if width < MinNumberWidth {
		width = MinNumberWidth
	}
	return Code{Prefix: prefix, Number: number, NumberWidth: width, Suffix: suffix}
}

// String renders the code in its canonical form:
// prefix + zero-padded number + suffix.
func (c Code) String() string {
	width := c.NumberWidth
	if width < MinNumberWidth {
		width = MinNumberWidth
	}
	return fmt.Sprintf("%s%0*d%s", c.Prefix, width, c.Number, c.Suffix)
}

// IsZero reports whether the code is the zero value (no prefix).
func (c Code) IsZero() bool {
	return c.Prefix == ""
}

// Equal reports field-wise equality.
func (c Code) Equal(other Code) bool {
	return c == other
}

// Next returns the code that follows c in issue order:
//   - no suffix: number+1
//   - suffix A..Y: same number, next letter
//   - suffix Z: number+1 and the suffix is dropped
//
// The Z rollover deliberately changes the code shape; confirmed product
// behavior, see DESIGN.md before changing it.
func (c Code) Next() Code {
	next := c
	switch {
	case c.Suffix == "":
		next.Number++
	case c.Suffix != "Z":
		next.Suffix = string(c.Suffix[0] + 1)
	default:
		next.Number++
		next.Suffix = ""
	}
	return next
}
