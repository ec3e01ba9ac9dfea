package cleantext

import "unicode"

// MaxInvalidRatio is the highest tolerated share of characters falling
// outside the accepted ranges. At or below this ratio text counts as
// clean.
const MaxInvalidRatio = 0.1

// validRanges lists the accepted character ranges. Ranges must stay
// sorted for unicode.Is.
var validRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0009, Hi: 0x000a, Stride: 1}, // tab, newline
		{Lo: 0x000d, Hi: 0x000d, Stride: 1}, // carriage return
		{Lo: 0x0020, Hi: 0x007e, Stride: 1}, // printable ASCII
		{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // Hiragana
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // Katakana
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // CJK unified ideographs
		{Lo: 0xff00, Hi: 0xffef, Stride: 1}, // half- and full-width forms
	},
	LatinOffset: 3,
}

// IsClean reports whether data consists primarily of printable ASCII
// and Japanese text. Empty input is never clean.
func IsClean(data string) bool {
	return InvalidRatio(data) <= MaxInvalidRatio
}

// InvalidRatio returns the share of characters in data that fall
// outside the accepted ranges, counted per rune. Empty input counts as
// fully invalid.
func InvalidRatio(data string) float64 {
	if data == "" {
		return 1
	}

	var total, invalid int
	for _, r := range data {
		total++
		if !unicode.Is(validRanges, r) {
			invalid++
		}
	}

	return float64(invalid) / float64(total)
}
