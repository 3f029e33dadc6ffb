package progress

import (
	"math"
	"sort"
	"time"
)

// SurahProgress is the canonical memorization record: one per (user, surah),
// created lazily on the first toggle and never deleted.
type SurahProgress struct {
	UserID         string    `json:"user_id"`
	SurahNumber    int       `json:"surah_number"`
	MemorizedAyahs []int     `json:"memorized_ayahs"` // sorted ascending, unique
	TotalAyahs     int       `json:"total_ayahs"`
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type SurahSummary struct {
	SurahNumber    int       `json:"surah_number"`
	SurahName      string    `json:"surah_name"`
	MemorizedCount int       `json:"memorized_count"`
	TotalAyahs     int       `json:"total_ayahs"`
	Percent        int       `json:"percent"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Summary struct {
	UserID         string         `json:"user_id"`
	TotalMemorized int            `json:"total_memorized"`
	OverallPercent int            `json:"overall_percent"`
	Surahs         []SurahSummary `json:"surahs"`
}

// Flip toggles membership of ayah in the memorized set and returns the
// updated set, sorted ascending with unique members.
func Flip(memorized []int, ayah int) []int {
	set := make(map[int]struct{}, len(memorized)+1)
	for _, a := range memorized {
		set[a] = struct{}{}
	}
	if _, ok := set[ayah]; ok {
		delete(set, ayah)
	} else {
		set[ayah] = struct{}{}
	}

	updated := make([]int, 0, len(set))
	for a := range set {
		updated = append(updated, a)
	}
	sort.Ints(updated)
	return updated
}

// Percent computes round(part/total*100), defined as 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func (sp SurahProgress) Summarize() SurahSummary {
	total := sp.TotalAyahs
	if total == 0 {
		total = SurahTotalAyahs(sp.SurahNumber)
	}
	return SurahSummary{
		SurahNumber:    sp.SurahNumber,
		SurahName:      SurahName(sp.SurahNumber),
		MemorizedCount: len(sp.MemorizedAyahs),
		TotalAyahs:     total,
		Percent:        Percent(len(sp.MemorizedAyahs), total),
		UpdatedAt:      sp.UpdatedAt,
	}
}
