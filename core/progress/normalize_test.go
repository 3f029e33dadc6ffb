package progress

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	t1 := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     LegacyRecord
		want    SurahProgress
		wantErr bool
	}{
		{
			name:    "no userId",
			rec:     LegacyRecord{SurahNumber: 1},
			wantErr: true,
		},
		{
			name:    "surah out of range",
			rec:     LegacyRecord{UserID: "u1", SurahNumber: 115},
			wantErr: true,
		},
		{
			name: "array shape",
			rec:  LegacyRecord{UserID: "u1", SurahNumber: 2, MemorizedAyahs: json.RawMessage(`[3, 1, 2, 2]`), TotalAyahs: 286},
			want: SurahProgress{UserID: "u1", SurahNumber: 2, MemorizedAyahs: []int{1, 2, 3}, TotalAyahs: 286},
		},
		{
			name: "object shape",
			rec:  LegacyRecord{UserID: "u1", SurahNumber: 1, MemorizedAyahs: json.RawMessage(`{"0": 2, "1": 1, "x": "nope"}`)},
			want: SurahProgress{UserID: "u1", SurahNumber: 1, MemorizedAyahs: []int{1, 2}, TotalAyahs: 7},
		},
		{
			name: "defaults surah to Al-Fatiha and total from table",
			rec:  LegacyRecord{UserID: "u1"},
			want: SurahProgress{UserID: "u1", SurahNumber: 1, MemorizedAyahs: []int{}, TotalAyahs: 7},
		},
		{
			name: "lastUpdated wins over updatedAt",
			rec:  LegacyRecord{UserID: "u1", SurahNumber: 1, LastUpdated: &t1, UpdatedAt: &t2},
			want: SurahProgress{UserID: "u1", SurahNumber: 1, MemorizedAyahs: []int{}, TotalAyahs: 7, UpdatedAt: t1},
		},
		{
			name: "timestamp as last resort",
			rec:  LegacyRecord{UserID: "u1", SurahNumber: 1, Timestamp: &t2},
			want: SurahProgress{UserID: "u1", SurahNumber: 1, MemorizedAyahs: []int{}, TotalAyahs: 7, UpdatedAt: t2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
