package progress

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// LegacyRecord mirrors the document shapes that accumulated across the old
// collections (memorizationProgress, progress, memorization, quranProgress).
// memorizedAyahs was stored either as an array of numbers or as an object of
// numeric values; totals and timestamps were present under varying keys or
// not at all.
type LegacyRecord struct {
	UserID         string          `json:"userId"`
	SurahNumber    int             `json:"surahNumber"`
	MemorizedAyahs json.RawMessage `json:"memorizedAyahs"`
	TotalAyahs     int             `json:"totalAyahs"`
	LastUpdated    *time.Time      `json:"lastUpdated"`
	UpdatedAt      *time.Time      `json:"updatedAt"`
	Timestamp      *time.Time      `json:"timestamp"`
}

var errNoUserID = errors.New("record has no userId")

// Normalize converts a legacy record into the canonical SurahProgress shape.
// It is used by the one-time import; the read path only ever sees canonical
// records.
func Normalize(rec LegacyRecord) (SurahProgress, error) {
	if rec.UserID == "" {
		return SurahProgress{}, errNoUserID
	}

	surah := rec.SurahNumber
	if surah == 0 {
		surah = 1
	}
	if surah < 1 || surah > NumSurahs {
		return SurahProgress{}, ErrSurahOutOfRange
	}

	ayahs, err := normalizeAyahs(rec.MemorizedAyahs)
	if err != nil {
		return SurahProgress{}, errors.Wrap(err, "normalizing memorizedAyahs")
	}

	total := rec.TotalAyahs
	if total == 0 {
		total = SurahTotalAyahs(surah)
	}

	var updatedAt time.Time
	switch {
	case rec.LastUpdated != nil:
		updatedAt = rec.LastUpdated.UTC()
	case rec.UpdatedAt != nil:
		updatedAt = rec.UpdatedAt.UTC()
	case rec.Timestamp != nil:
		updatedAt = rec.Timestamp.UTC()
	}

	return SurahProgress{
		UserID:         rec.UserID,
		SurahNumber:    surah,
		MemorizedAyahs: ayahs,
		TotalAyahs:     total,
		UpdatedAt:      updatedAt,
	}, nil
}

// normalizeAyahs accepts the two historical shapes: a JSON array of numbers,
// or an object whose numeric values are the ayah numbers. Non-numeric object
// values are dropped. The result is sorted ascending and unique.
func normalizeAyahs(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []int{}, nil
	}

	var arr []int
	if err := json.Unmarshal(raw, &arr); err == nil {
		return dedupeSorted(arr), nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	arr = make([]int, 0, len(obj))
	for _, v := range obj {
		if n, ok := v.(float64); ok {
			arr = append(arr, int(n))
		}
	}
	return dedupeSorted(arr), nil
}

func dedupeSorted(arr []int) []int {
	set := make(map[int]struct{}, len(arr))
	for _, a := range arr {
		set[a] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Ints(out)
	return out
}
