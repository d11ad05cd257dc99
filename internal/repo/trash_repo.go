// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the soft-delete, restore and purge
// statements shared by the trash engine and the retention sweeper.
//
// Every mutating function returns the number of affected rows so callers
// can report how much moved in or out of the trash. An empty month argument
// widens the scope from one period to the whole year.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
)

// inScope filters by year and, when month is non-empty, by month-variant.
func inScope(year, month string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("year = ?", year)
		if month != "" {
			db = db.Where("month = ?", month)
		}
		return db
	}
}

func trashed(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", true)
}

func deletion(at time.Time) map[string]any {
	return map[string]any{"deleted": true, "deleted_at": at.UTC()}
}

func restoration() map[string]any {
	return map[string]any{"deleted": false, "deleted_at": nil}
}

// SoftDeleteRecord moves one live record of (year, month) to the trash.
// Zero affected rows means the record was already deleted or belongs to
// another period.
func SoftDeleteRecord(ctx context.Context, db *gorm.DB, id uint, year, month string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inPeriod(year, month)).
		Where("id = ?", id).
		Updates(deletion(at))
	return res.RowsAffected, res.Error
}

// SoftDeleteRecords moves every live record of the scope to the trash.
// Records already in the trash keep their original timestamp.
func SoftDeleteRecords(ctx context.Context, db *gorm.DB, year, month string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inScope(year, month), live).
		Updates(deletion(at))
	return res.RowsAffected, res.Error
}

// SoftDeletePeriods moves every live period row of the scope to the trash.
func SoftDeletePeriods(ctx context.Context, db *gorm.DB, year, month string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(inScope(year, month), live).
		Updates(deletion(at))
	return res.RowsAffected, res.Error
}

// RestoreRecord takes one record out of the trash by id alone. The owning
// period is not consulted, so a record can come back while its period
// stays deleted.
func RestoreRecord(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(trashed).
		Where("id = ?", id).
		Updates(restoration())
	return res.RowsAffected, res.Error
}

// RestoreRecords takes every trashed record of the scope out of the trash.
func RestoreRecords(ctx context.Context, db *gorm.DB, year, month string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inScope(year, month), trashed).
		Updates(restoration())
	return res.RowsAffected, res.Error
}

// RestorePeriods takes every trashed period row of the scope out of the trash.
func RestorePeriods(ctx context.Context, db *gorm.DB, year, month string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(inScope(year, month), trashed).
		Updates(restoration())
	return res.RowsAffected, res.Error
}

// ListDeletedPeriods returns every trashed period row, most recently deleted
// first.
func ListDeletedPeriods(ctx context.Context, db *gorm.DB) ([]domain.Period, error) {
	var out []domain.Period
	err := db.WithContext(ctx).
		Scopes(trashed).
		Order("deleted_at DESC, year DESC, month ASC").
		Find(&out).Error
	return out, err
}

// ListDeletedRecords returns every trashed record, most recently deleted
// first.
func ListDeletedRecords(ctx context.Context, db *gorm.DB) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Scopes(trashed).
		Order("deleted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// PurgeRecords permanently removes trashed records deleted before cutoff.
func PurgeRecords(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Scopes(trashed).
		Where("deleted_at < ?", cutoff.UTC()).
		Delete(&domain.Record{})
	return res.RowsAffected, res.Error
}

// PurgePeriods permanently removes trashed period rows deleted before cutoff.
func PurgePeriods(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Scopes(trashed).
		Where("deleted_at < ?", cutoff.UTC()).
		Delete(&domain.Period{})
	return res.RowsAffected, res.Error
}
