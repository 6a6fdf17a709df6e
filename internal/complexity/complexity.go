// Package complexity checks whether a secret is diverse enough to be stored
// in a credential record.
package complexity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the minimum number of code points a secret must have.
const MinLength = 6

// Cyrillic block bounds.
const (
	cyrillicFirst = 0x0400
	cyrillicLast  = 0x04FF
)

// Category is one class of characters a secret must contain.
type Category uint8

const (
	LatinLower Category = 1 << iota
	LatinUpper
	CyrillicLower
	CyrillicUpper
	DigitOrSymbol
)

// All is the set of every category. A valid secret covers all of them.
const All = LatinLower | LatinUpper | CyrillicLower | CyrillicUpper | DigitOrSymbol

var categoryOrder = []Category{LatinLower, LatinUpper, CyrillicLower, CyrillicUpper, DigitOrSymbol}

// String returns a human-readable name of a single category or a
// comma-separated list for a set.
func (c Category) String() string {
	names := make([]string, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		if c&cat == 0 {
			continue
		}
		switch cat {
		case LatinLower:
			names = append(names, "latin lowercase")
		case LatinUpper:
			names = append(names, "latin uppercase")
		case CyrillicLower:
			names = append(names, "cyrillic lowercase")
		case CyrillicUpper:
			names = append(names, "cyrillic uppercase")
		case DigitOrSymbol:
			names = append(names, "digit or symbol")
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Report describes how a secret measured against the policy.
type Report struct {
	// Length is the number of code points in the secret.
	Length int
	// Present is the set of categories seen at least once.
	Present Category
}

// TooShort reports whether the secret is below MinLength.
func (r Report) TooShort() bool {
	return r.Length < MinLength
}

// Missing returns the categories that were never seen, in policy order.
func (r Report) Missing() []Category {
	var out []Category
	for _, cat := range categoryOrder {
		if r.Present&cat == 0 {
			out = append(out, cat)
		}
	}
	return out
}

// OK reports whether the secret satisfies the policy.
func (r Report) OK() bool {
	return !r.TooShort() && r.Present&All == All
}

// Check measures secret against the policy. A too-short secret is still
// fully scanned so the caller can show every problem at once.
func Check(secret string) Report {
	rep := Report{Length: utf8.RuneCountInString(secret)}
	for _, r := range secret {
		rep.Present |= Classify(r)
	}
	return rep
}

// Validate reports whether secret is at least MinLength code points long and
// contains every category.
func Validate(secret string) bool {
	return Check(secret).OK()
}

// Classify returns the category of a single code point, or zero for letters
// outside the tracked alphabets and case-less letters of the Cyrillic block.
func Classify(r rune) Category {
	switch {
	case r >= 'a' && r <= 'z':
		return LatinLower
	case r >= 'A' && r <= 'Z':
		return LatinUpper
	case r >= cyrillicFirst && r <= cyrillicLast && unicode.IsLower(r):
		return CyrillicLower
	case r >= cyrillicFirst && r <= cyrillicLast && unicode.IsUpper(r):
		return CyrillicUpper
	case unicode.IsDigit(r):
		return DigitOrSymbol
	case !unicode.IsLetter(r) && !unicode.IsNumber(r):
		// Punctuation, symbols, spaces, combining marks and controls.
		return DigitOrSymbol
	}
	return 0
}
