package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core/progress"
)

type progressRow struct {
	UserID         string        `db:"user_id"`
	SurahNumber    int           `db:"surah_number"`
	MemorizedAyahs pq.Int64Array `db:"memorized_ayahs"`
	TotalAyahs     int           `db:"total_ayahs"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (r progressRow) toSurahProgress() progress.SurahProgress {
	return progress.SurahProgress{
		UserID:         r.UserID,
		SurahNumber:    r.SurahNumber,
		MemorizedAyahs: toInts(r.MemorizedAyahs),
		TotalAyahs:     r.TotalAyahs,
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func toInts(arr pq.Int64Array) []int {
	ayahs := make([]int, 0, len(arr))
	for _, a := range arr {
		ayahs = append(ayahs, int(a))
	}
	return ayahs
}

func toInt64s(ayahs []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(ayahs))
	for _, a := range ayahs {
		arr = append(arr, int64(a))
	}
	return arr
}

const selectProgress = `
SELECT user_id, surah_number, memorized_ayahs, total_ayahs, updated_at
FROM surah_progress`

const upsertProgress = `
INSERT INTO surah_progress (user_id, surah_number, memorized_ayahs, total_ayahs, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, surah_number)
DO UPDATE SET memorized_ayahs = EXCLUDED.memorized_ayahs, total_ayahs = EXCLUDED.total_ayahs, updated_at = EXCLUDED.updated_at`

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *sqlx.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetSurahProgress(ctx context.Context, userID string, surahNumber int) (progress.SurahProgress, error) {
	var row progressRow
	q := selectProgress + ` WHERE user_id = $1 AND surah_number = $2`
	if err := repo.db.GetContext(ctx, &row, q, userID, surahNumber); err != nil {
		if err == sql.ErrNoRows {
			return progress.SurahProgress{}, progress.ErrNotFound
		}
		return progress.SurahProgress{}, errors.Wrap(err, "getting surah progress")
	}
	return row.toSurahProgress(), nil
}

func (repo *progressRepository) QueryUserProgress(ctx context.Context, userID string) ([]progress.SurahProgress, error) {
	var rows []progressRow
	q := selectProgress + ` WHERE user_id = $1 ORDER BY surah_number`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying user progress")
	}

	recs := make([]progress.SurahProgress, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toSurahProgress())
	}
	return recs, nil
}

// ToggleAyah locks the record row, flips the ayah and writes the updated set
// back, all in one transaction. The record is created when absent.
func (repo *progressRepository) ToggleAyah(ctx context.Context, userID string, surahNumber, totalAyahs, ayah int) ([]int, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var memorized pq.Int64Array
	q := `SELECT memorized_ayahs FROM surah_progress WHERE user_id = $1 AND surah_number = $2 FOR UPDATE`
	if err = tx.GetContext(ctx, &memorized, q, userID, surahNumber); err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "locking surah progress")
	}

	updated := progress.Flip(toInts(memorized), ayah)
	if _, err = tx.ExecContext(ctx, upsertProgress, userID, surahNumber, toInt64s(updated), totalAyahs, time.Now().UTC()); err != nil {
		return nil, errors.Wrap(err, "upserting surah progress")
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}
	return updated, nil
}

func (repo *progressRepository) UpsertSurahProgress(ctx context.Context, sp progress.SurahProgress) (progress.SurahProgress, error) {
	_, err := repo.db.ExecContext(ctx, upsertProgress,
		sp.UserID, sp.SurahNumber, toInt64s(sp.MemorizedAyahs), sp.TotalAyahs, sp.UpdatedAt)
	if err != nil {
		return progress.SurahProgress{}, errors.Wrap(err, "upserting surah progress")
	}
	return sp, nil
}
