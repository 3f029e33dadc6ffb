package progress

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
)

var (
	// errors
	ErrNotFound        = errors.New("progress record not found")
	ErrSurahOutOfRange = errors.New("surah number must be between 1 and 114")
	ErrAyahOutOfRange  = errors.New("ayah number is out of range for this surah")
)

type (
	Repository interface {
		GetSurahProgress(ctx context.Context, userID string, surahNumber int) (SurahProgress, error)
		QueryUserProgress(ctx context.Context, userID string) ([]SurahProgress, error)
		// ToggleAyah flips ayah membership inside a single transaction and
		// returns the updated set. The record is created when absent.
		ToggleAyah(ctx context.Context, userID string, surahNumber, totalAyahs, ayah int) ([]int, error)
		UpsertSurahProgress(ctx context.Context, sp SurahProgress) (SurahProgress, error)
	}

	ServiceInterface interface {
		GetMemorizedAyahs(ctx context.Context, userID string, surahNumber int) ([]int, error)
		Toggle(ctx context.Context, userID string, surahNumber, ayah int) ([]int, error)
		GetUserProgress(ctx context.Context, userID string) []SurahProgress
		Summarize(ctx context.Context, userID string) Summary
		ImportLegacy(ctx context.Context, recs []LegacyRecord) (int, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetMemorizedAyahs returns the sorted memorized set for (user, surah),
// empty when no record exists yet.
func (svc *Service) GetMemorizedAyahs(ctx context.Context, userID string, surahNumber int) ([]int, error) {
	if surahNumber < 1 || surahNumber > NumSurahs {
		return nil, core.NewValidationError(ErrSurahOutOfRange)
	}

	sp, err := svc.repo.GetSurahProgress(ctx, userID, surahNumber)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return []int{}, nil
		}
		return nil, errors.Wrap(err, "getting surah progress")
	}
	if sp.MemorizedAyahs == nil {
		return []int{}, nil
	}
	return sp.MemorizedAyahs, nil
}

// Toggle flips membership of ayah in the memorized set for (user, surah) and
// returns the updated set. The flip is transactional; concurrent toggles
// serialize on the record row.
func (svc *Service) Toggle(ctx context.Context, userID string, surahNumber, ayah int) ([]int, error) {
	if surahNumber < 1 || surahNumber > NumSurahs {
		return nil, core.NewValidationError(ErrSurahOutOfRange)
	}
	total := SurahTotalAyahs(surahNumber)
	if ayah < 1 || ayah > total {
		return nil, core.NewValidationError(ErrAyahOutOfRange)
	}
	return svc.repo.ToggleAyah(ctx, userID, surahNumber, total, ayah)
}

// GetUserProgress returns all progress records for a user. Read failures
// degrade to an empty list; no data and failed load look the same here.
func (svc *Service) GetUserProgress(ctx context.Context, userID string) []SurahProgress {
	recs, err := svc.repo.QueryUserProgress(ctx, userID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("querying user progress: %v", err), err)
		return []SurahProgress{}
	}
	if recs == nil {
		recs = []SurahProgress{}
	}
	return recs
}

// Summarize aggregates a user's progress: per-surah percentages plus the
// overall percentage against the whole Quran. When the user has no records
// at all, a zeroed Al-Fatiha entry is synthesized so there is something to
// render.
func (svc *Service) Summarize(ctx context.Context, userID string) Summary {
	recs := svc.GetUserProgress(ctx, userID)
	if len(recs) == 0 {
		recs = []SurahProgress{{
			UserID:      userID,
			SurahNumber: 1,
			TotalAyahs:  SurahTotalAyahs(1),
		}}
	}

	summary := Summary{
		UserID: userID,
		Surahs: make([]SurahSummary, 0, len(recs)),
	}
	for _, sp := range recs {
		s := sp.Summarize()
		summary.TotalMemorized += s.MemorizedCount
		summary.Surahs = append(summary.Surahs, s)
	}
	summary.OverallPercent = Percent(summary.TotalMemorized, TotalQuranAyahs)
	return summary
}

// ImportLegacy migrates legacy-shaped records into the canonical form,
// skipping records that cannot be normalized. Returns the number imported.
func (svc *Service) ImportLegacy(ctx context.Context, recs []LegacyRecord) (int, error) {
	var imported int
	for _, rec := range recs {
		sp, err := Normalize(rec)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("skipping legacy record %s_%d: %v", rec.UserID, rec.SurahNumber, err))
			continue
		}
		if _, err = svc.repo.UpsertSurahProgress(ctx, sp); err != nil {
			return imported, errors.Wrapf(err, "importing record %s_%d", sp.UserID, sp.SurahNumber)
		}
		imported++
	}
	return imported, nil
}
