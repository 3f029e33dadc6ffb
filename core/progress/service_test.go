package progress_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/progress"
	inmemdb "github.com/ustazbot/myhafiz/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) *progress.Service {
	t.Helper()
	return progress.NewService(inmemdb.NewProgressRepository(inmemdb.NewDB()), nopLogger{})
}

func isValidationError(err error) bool {
	_, ok := err.(*core.ValidationError)
	return ok
}

func TestServiceToggle(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	memorized, err := svc.Toggle(ctx, "u1", 1, 3)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if want := []int{3}; !reflect.DeepEqual(memorized, want) {
		t.Errorf("Toggle() = %v, want %v", memorized, want)
	}

	memorized, err = svc.Toggle(ctx, "u1", 1, 1)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if want := []int{1, 3}; !reflect.DeepEqual(memorized, want) {
		t.Errorf("Toggle() = %v, want %v", memorized, want)
	}

	// toggling the same ayah again removes it
	memorized, err = svc.Toggle(ctx, "u1", 1, 3)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if want := []int{1}; !reflect.DeepEqual(memorized, want) {
		t.Errorf("Toggle() = %v, want %v", memorized, want)
	}
}

func TestServiceToggleBounds(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		surahNumber int
		ayah        int
	}{
		{name: "surah too low", surahNumber: 0, ayah: 1},
		{name: "surah too high", surahNumber: 115, ayah: 1},
		{name: "ayah too low", surahNumber: 1, ayah: 0},
		{name: "ayah beyond surah", surahNumber: 1, ayah: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Toggle(ctx, "u1", tt.surahNumber, tt.ayah); !isValidationError(err) {
				t.Errorf("Toggle() error = %v, want a validation error", err)
			}
		})
	}
}

func TestServiceGetMemorizedAyahs(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	memorized, err := svc.GetMemorizedAyahs(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("GetMemorizedAyahs() error = %v", err)
	}
	if len(memorized) != 0 {
		t.Errorf("GetMemorizedAyahs() = %v, want empty", memorized)
	}

	if _, err = svc.Toggle(ctx, "u1", 2, 255); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	memorized, err = svc.GetMemorizedAyahs(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("GetMemorizedAyahs() error = %v", err)
	}
	if want := []int{255}; !reflect.DeepEqual(memorized, want) {
		t.Errorf("GetMemorizedAyahs() = %v, want %v", memorized, want)
	}
}

func TestServiceSummarize(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	// no records: a zeroed Al-Fatiha entry is synthesized
	summary := svc.Summarize(ctx, "u1")
	if len(summary.Surahs) != 1 || summary.Surahs[0].SurahNumber != 1 {
		t.Fatalf("Summarize() surahs = %+v, want a single Al-Fatiha entry", summary.Surahs)
	}
	if summary.TotalMemorized != 0 || summary.OverallPercent != 0 {
		t.Errorf("Summarize() = %+v, want zeroed totals", summary)
	}

	for _, ayah := range []int{1, 2, 3} {
		if _, err := svc.Toggle(ctx, "u1", 1, ayah); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
	}
	if _, err := svc.Toggle(ctx, "u1", 112, 1); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	summary = svc.Summarize(ctx, "u1")
	if summary.TotalMemorized != 4 {
		t.Errorf("TotalMemorized = %d, want 4", summary.TotalMemorized)
	}
	if len(summary.Surahs) != 2 {
		t.Fatalf("Surahs len = %d, want 2", len(summary.Surahs))
	}
	if got := summary.Surahs[0].Percent; got != 43 {
		t.Errorf("Al-Fatiha percent = %d, want 43", got)
	}
	if got := summary.Surahs[1].Percent; got != 25 {
		t.Errorf("Al-Ikhlas percent = %d, want 25", got)
	}
}

func TestServiceImportLegacy(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	recs := []progress.LegacyRecord{
		{UserID: "u1", SurahNumber: 2, MemorizedAyahs: json.RawMessage(`[1, 2]`)},
		{SurahNumber: 3}, // no userId; skipped
		{UserID: "u2", MemorizedAyahs: json.RawMessage(`{"0": 7}`)},
	}

	imported, err := svc.ImportLegacy(ctx, recs)
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}
	if imported != 2 {
		t.Errorf("ImportLegacy() = %d, want 2", imported)
	}

	memorized, err := svc.GetMemorizedAyahs(ctx, "u2", 1)
	if err != nil {
		t.Fatalf("GetMemorizedAyahs() error = %v", err)
	}
	if want := []int{7}; !reflect.DeepEqual(memorized, want) {
		t.Errorf("GetMemorizedAyahs() = %v, want %v", memorized, want)
	}
}
