package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
)

// RecordsStats returns the number of live records in (year, month) and
// their latest UpdatedAt (nil when there are none). The record listing
// derives its ETag from both, so any create, edit, delete or recovery in the
// period changes the tag.
func RecordsStats(ctx context.Context, db *gorm.DB, year, month string) (int64, *time.Time, error) {
	return liveStats(db.WithContext(ctx).Model(&domain.Record{}).
		Where("year = ? AND month = ? AND deleted = ?", year, month, false))
}

// PeriodsStats is RecordsStats for the live periods of a year.
func PeriodsStats(ctx context.Context, db *gorm.DB, year string) (int64, *time.Time, error) {
	return liveStats(db.WithContext(ctx).Model(&domain.Period{}).
		Where("year = ? AND deleted = ?", year, false))
}

func liveStats(scope *gorm.DB) (count int64, latest *time.Time, err error) {
	q := scope.Session(&gorm.Session{})
	if err = q.Count(&count).Error; err != nil || count == 0 {
		return 0, nil, err
	}

	// ORDER BY instead of MAX(): SQLite returns MAX(updated_at) as TEXT.
	var row struct{ UpdatedAt time.Time }
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
