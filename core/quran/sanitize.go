package quran

import (
	"strings"
	"unicode"
)

// arabicRanges is the allow-list of script blocks kept in displayed Arabic
// text: Arabic, Arabic Supplement, Arabic Extended-A, the presentation forms,
// and the Arabic Mathematical Alphabetic Symbols plane.
var arabicRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
		{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
		{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1},
		{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1EE00, Hi: 0x1EEFF, Stride: 1},
	},
}

// SanitizeArabic drops any rune outside the Arabic allow-list (digits and
// whitespace excepted) and normalizes runs of whitespace to single spaces.
func SanitizeArabic(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.Is(arabicRanges, r):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
