package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"empty", "", false},
		{"five categories but too short", "aAпП1", false},
		{"three categories", "Abcd12", false},
		{"no cyrillic upper", "Abпривет1", false},
		{"no latin", "Привет12", false},
		{"all five with digit", "Привет1Qq", true},
		{"all five with symbol instead of digit", "Привет!Qq", true},
		{"all five exactly six code points", "aAпП1x", true},
		{"space counts as symbol", "aA пП x", true},
		{"yo is in the block", "ёЁaA1x", true},
		{"extended cyrillic letters", "ӂӁaA1x", true},
		{"combining mark counts as symbol", "aAпПx\u0301", true},
		{"greek does not count", "αΑaA1x", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.secret), "Validate(%q)", tc.secret)
		})
	}
}

func TestValidate_LengthIsCodePoints(t *testing.T) {
	// Twelve bytes of UTF-8 but only five code points.
	assert.False(t, Validate("пП1aA"))
	assert.Equal(t, 5, Check("пП1aA").Length)
}

func TestCheck_Missing(t *testing.T) {
	rep := Check("Abcd12")
	assert.False(t, rep.TooShort())
	assert.False(t, rep.OK())
	assert.Equal(t, []Category{CyrillicLower, CyrillicUpper}, rep.Missing())

	rep = Check("abc")
	assert.True(t, rep.TooShort())
	assert.Equal(t, []Category{LatinUpper, CyrillicLower, CyrillicUpper, DigitOrSymbol}, rep.Missing())

	assert.Empty(t, Check("Привет1Qq").Missing())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want Category
	}{
		{'q', LatinLower},
		{'Q', LatinUpper},
		{'ж', CyrillicLower},
		{'Ж', CyrillicUpper},
		{'7', DigitOrSymbol},
		{'٣', DigitOrSymbol},
		{'#', DigitOrSymbol},
		{'€', DigitOrSymbol},
		{'\u0483', DigitOrSymbol},
		{'é', 0},
		{'ß', 0},
		{'½', 0},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, Classify(tc.r), "Classify(%q)", tc.r)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "latin lowercase", LatinLower.String())
	assert.Equal(t, "cyrillic lowercase, digit or symbol", (CyrillicLower | DigitOrSymbol).String())
	assert.Equal(t, "none", Category(0).String())
}
