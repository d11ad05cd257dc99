// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Record
// model (susceptible child records).
//
// Every lookup is scoped to one (year, month-variant) period and to live rows;
// a record of another period, or one sitting in the trash, is reported as
// ErrNotFound.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
)

// RecordFields are the user-editable columns of a record.
type RecordFields struct {
	ChildName      string
	BirthDate      string
	MotherName     string
	Community      string
	PendingVaccine string
}

// inPeriod scopes a query to the live records of one period.
func inPeriod(year, month string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("year = ? AND month = ? AND deleted = ?", year, month, false)
	}
}

// matching filters by child name or community when query is non-empty.
func matching(query string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query == "" {
			return db
		}
		like := "%" + query + "%"
		return db.Where("(child_name LIKE ? OR community LIKE ?)", like, like)
	}
}

// CreateRecord inserts a live record under (year, month).
func CreateRecord(ctx context.Context, db *gorm.DB, year, month string, f RecordFields) (*domain.Record, error) {
	now := time.Now().UTC()
	r := &domain.Record{
		ChildName:      f.ChildName,
		BirthDate:      f.BirthDate,
		MotherName:     f.MotherName,
		Community:      f.Community,
		PendingVaccine: f.PendingVaccine,
		Year:           year,
		Month:          month,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecord fetches a live record by id within (year, month), or ErrNotFound.
func GetRecord(ctx context.Context, db *gorm.DB, id uint, year, month string) (*domain.Record, error) {
	var r domain.Record
	err := db.WithContext(ctx).
		Scopes(inPeriod(year, month)).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRecord overwrites the editable fields of a live record within
// (year, month). It returns ErrNotFound if no row matched.
func UpdateRecord(ctx context.Context, db *gorm.DB, id uint, year, month string, f RecordFields) error {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inPeriod(year, month)).
		Where("id = ?", id).
		Updates(map[string]any{
			"child_name":      f.ChildName,
			"birth_date":      f.BirthDate,
			"mother_name":     f.MotherName,
			"community":       f.Community,
			"pending_vaccine": f.PendingVaccine,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecordsPage returns a page of live records of (year, month), newest id
// first, optionally filtered by child name or community.
func ListRecordsPage(ctx context.Context, db *gorm.DB, year, month, query string, offset, limit int) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Scopes(inPeriod(year, month), matching(query)).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountRecords counts live records of (year, month) matching query.
func CountRecords(ctx context.Context, db *gorm.DB, year, month, query string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inPeriod(year, month), matching(query)).
		Count(&total).Error
	return total, err
}

// CountPending counts live records of (year, month) that still owe a
// vaccine: pending_vaccine is neither NULL, empty nor a "no vaccine" token.
func CountPending(ctx context.Context, db *gorm.DB, year, month string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Scopes(inPeriod(year, month)).
		Where("pending_vaccine IS NOT NULL").
		Where("UPPER(TRIM(pending_vaccine)) NOT IN ?", domain.NoPendingTokens()).
		Count(&total).Error
	return total, err
}
