package quran

import "testing"

func TestSanitizeArabic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "plain arabic untouched",
			in:   "بِسْمِ اللَّهِ",
			want: "بِسْمِ اللَّهِ",
		},
		{
			name: "strips latin",
			in:   "بِسْمِ abc اللَّهِ",
			want: "بِسْمِ اللَّهِ",
		},
		{
			name: "collapses whitespace",
			in:   "بِسْمِ\t\n  اللَّهِ",
			want: "بِسْمِ اللَّهِ",
		},
		{
			name: "keeps digits",
			in:   "آية 7",
			want: "آية 7",
		},
		{
			name: "strips control chars",
			in:   "بِسْمِ‎ اللَّهِ",
			want: "بِسْمِ اللَّهِ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeArabic(tt.in); got != tt.want {
				t.Errorf("SanitizeArabic(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
