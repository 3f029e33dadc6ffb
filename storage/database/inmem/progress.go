package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/ustazbot/myhafiz/core/progress"
)

type progressRepository struct {
	db *progressTable
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) *progressRepository {
	return &progressRepository{db: db.progress}
}

func (repo *progressRepository) GetSurahProgress(ctx context.Context, userID string, surahNumber int) (progress.SurahProgress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sp, ok := repo.db.table[progressKey{userID, surahNumber}]; ok {
		return *sp, nil
	}
	return progress.SurahProgress{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryUserProgress(ctx context.Context, userID string) ([]progress.SurahProgress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]progress.SurahProgress, 0)
	for key, sp := range repo.db.table {
		if key.userID == userID {
			recs = append(recs, *sp)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].SurahNumber < recs[j].SurahNumber })
	return recs, nil
}

func (repo *progressRepository) ToggleAyah(ctx context.Context, userID string, surahNumber, totalAyahs, ayah int) ([]int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := progressKey{userID, surahNumber}
	sp, ok := repo.db.table[key]
	if !ok {
		sp = &progress.SurahProgress{
			UserID:      userID,
			SurahNumber: surahNumber,
			TotalAyahs:  totalAyahs,
		}
		repo.db.table[key] = sp
	}
	sp.MemorizedAyahs = progress.Flip(sp.MemorizedAyahs, ayah)
	sp.TotalAyahs = totalAyahs
	sp.UpdatedAt = time.Now().UTC()
	return sp.MemorizedAyahs, nil
}

func (repo *progressRepository) UpsertSurahProgress(ctx context.Context, sp progress.SurahProgress) (progress.SurahProgress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[progressKey{sp.UserID, sp.SurahNumber}] = &sp
	return sp, nil
}
