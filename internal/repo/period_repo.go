// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Period
// model (period metadata store).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. Only live
// rows (deleted = false) are visible here; trash handling lives in
// trash_repo.go.
//
// Error semantics:
//   - When a period is not found (or is in the trash), functions return
//     ErrNotFound.
//   - Insert collisions on (year, month) are returned as ErrDuplicate.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinica/susceptibles/internal/domain"
)

// YearSummary is one row of the year selection list: a live year and the
// metadata of its January period.
type YearSummary struct {
	Year         string `json:"year"`
	Responsible  string `json:"responsible"`
	Municipality string `json:"municipality"`
}

// live restricts a query to rows that are not in the trash.
func live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

// CreateYear inserts the twelve canonical months for year. Months that
// already have a row (live or in the trash) are left untouched. It returns
// the number of rows actually inserted.
func CreateYear(ctx context.Context, db *gorm.DB, year string) (int64, error) {
	now := time.Now().UTC()
	ps := make([]domain.Period, 0, len(domain.CanonicalMonths))
	for _, m := range domain.CanonicalMonths {
		ps = append(ps, domain.Period{
			Year:         year,
			Month:        m,
			Responsible:  domain.DefaultMetadata,
			Municipality: domain.DefaultMetadata,
			Facility:     domain.DefaultMetadata,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ps)
	return res.RowsAffected, res.Error
}

// HasLiveYear reports whether year has a live canonical January row, the
// marker used to decide whether a year has been bootstrapped.
func HasLiveYear(ctx context.Context, db *gorm.DB, year string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(live).
		Where("year = ? AND month = ?", year, domain.CanonicalMonths[0]).
		Count(&n).Error
	return n > 0, err
}

// ListYears returns every live year (identified by its live January row),
// newest first.
func ListYears(ctx context.Context, db *gorm.DB) ([]YearSummary, error) {
	var out []YearSummary
	err := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(live).
		Select("year, responsible, municipality").
		Where("month = ?", domain.CanonicalMonths[0]).
		Order("year DESC").
		Scan(&out).Error
	return out, err
}

// ListPeriods returns the live periods of year in storage order. Callers sort
// with domain.SortPeriods.
func ListPeriods(ctx context.Context, db *gorm.DB, year string) ([]domain.Period, error) {
	var out []domain.Period
	err := db.WithContext(ctx).
		Scopes(live).
		Where("year = ?", year).
		Order("month ASC").
		Find(&out).Error
	return out, err
}

// GetPeriod fetches a live period by key, or ErrNotFound.
func GetPeriod(ctx context.Context, db *gorm.DB, year, month string) (*domain.Period, error) {
	var p domain.Period
	err := db.WithContext(ctx).
		Scopes(live).
		Where("year = ? AND month = ?", year, month).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListVariants returns the live month-variant names of year whose name
// starts with base.
func ListVariants(ctx context.Context, db *gorm.DB, year, base string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(live).
		Where("year = ? AND month LIKE ?", year, base+"%").
		Pluck("month", &out).Error
	domain.SortMonths(out)
	return out, err
}

// InsertPeriod inserts p. A collision on (year, month), live or trashed,
// yields ErrDuplicate.
func InsertPeriod(ctx context.Context, db *gorm.DB, p *domain.Period) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdatePeriodMetadata overwrites the metadata of a live period. It returns
// ErrNotFound when no live row matches.
func UpdatePeriodMetadata(ctx context.Context, db *gorm.DB, year, month, responsible, municipality, facility string) error {
	res := db.WithContext(ctx).
		Model(&domain.Period{}).
		Scopes(live).
		Where("year = ? AND month = ?", year, month).
		Updates(map[string]any{
			"responsible":  responsible,
			"municipality": municipality,
			"facility":     facility,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err is the repository not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
