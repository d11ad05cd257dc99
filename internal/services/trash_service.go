// Package services – TrashService
//
// This file implements the soft-delete engine ("papelera"). It moves records
// and periods in and out of the trash at three granularities (single record,
// single period, whole year), refuses to delete the period that is active in
// the caller's session, and builds the hierarchical recovery view.
//
// The active period is always passed in explicitly as an ActivePeriod value;
// the engine never reads session state on its own.
//
// Period and year deletes run their two statements (records, then periods)
// inside one transaction, so a failure leaves both tables untouched.
//
// Observability: all public methods are OpenTelemetry-instrumented and feed
// the papelera_* Prometheus counters.
package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/observability"
	"github.com/clinica/susceptibles/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultRetention is how long a row stays recoverable in the trash.
const DefaultRetention = 30 * 24 * time.Hour

// ActivePeriod is the (year, month-variant) selected in the caller's session.
// Either field may be empty.
type ActivePeriod struct {
	Year  string
	Month string
}

// Key returns the active period as a domain key.
func (a ActivePeriod) Key() domain.PeriodKey {
	return domain.PeriodKey{Year: a.Year, Month: a.Month}
}

// Complete reports whether both year and month are selected.
func (a ActivePeriod) Complete() bool { return a.Year != "" && a.Month != "" }

// RecoveryScope selects what a recovery key addresses.
type RecoveryScope string

const (
	ScopeRecord RecoveryScope = "record"
	ScopePeriod RecoveryScope = "period"
	ScopeYear   RecoveryScope = "year"
)

// ParseRecoveryScope validates a scope name.
func ParseRecoveryScope(s string) (RecoveryScope, error) {
	switch sc := RecoveryScope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeRecord, ScopePeriod, ScopeYear:
		return sc, nil
	}
	return "", ErrUnknownRecoveryScope
}

// RecoveryTarget is a decoded recovery key.
type RecoveryTarget struct {
	Scope    RecoveryScope
	RecordID uint
	Year     string
	Month    string
}

// legacyYearLen is the fixed year width of separator-less period keys.
const legacyYearLen = 4

// PeriodRecoveryKey encodes a period as "<year>/<month-variant>".
func PeriodRecoveryKey(year, month string) string {
	return year + "/" + month
}

// DecodeRecoveryKey turns a (scope, key) pair into a RecoveryTarget.
//
// Period keys are "<year>/<month-variant>". Keys without a separator are
// read the legacy way: the first four characters are the year and the rest
// is the month-variant ("2024Enero").
func DecodeRecoveryKey(scope RecoveryScope, key string) (RecoveryTarget, error) {
	key = strings.TrimSpace(key)
	t := RecoveryTarget{Scope: scope}
	switch scope {
	case ScopeRecord:
		id, err := strconv.ParseUint(key, 10, 0)
		if err != nil || id == 0 {
			return t, ErrInvalidRecoveryKey
		}
		t.RecordID = uint(id)
	case ScopePeriod:
		if i := strings.Index(key, "/"); i >= 0 {
			t.Year, t.Month = key[:i], key[i+1:]
		} else if len(key) > legacyYearLen {
			t.Year, t.Month = key[:legacyYearLen], key[legacyYearLen:]
		}
		if t.Year == "" || t.Month == "" {
			return t, ErrInvalidRecoveryKey
		}
	case ScopeYear:
		if key == "" || strings.Contains(key, "/") {
			return t, ErrInvalidRecoveryKey
		}
		t.Year = key
	default:
		return t, ErrUnknownRecoveryScope
	}
	return t, nil
}

// TrashService is the soft-delete engine.
type TrashService struct {
	DB    *gorm.DB
	Clock Clock
	// Retention is the trash lifetime used for expires_at; DefaultRetention
	// when zero.
	Retention time.Duration
}

// NewTrashService constructs a TrashService on the system clock.
func NewTrashService(db *gorm.DB, clock Clock, retention time.Duration) *TrashService {
	return &TrashService{DB: db, Clock: clockOrSystem(clock), Retention: retention}
}

func (s *TrashService) now() time.Time { return clockOrSystem(s.Clock).Now().UTC() }

func (s *TrashService) retention() time.Duration {
	if s.Retention <= 0 {
		return DefaultRetention
	}
	return s.Retention
}

// DeleteRecord moves one live record of (year, month) to the trash. A record
// that is already deleted or belongs to another period yields 0 and no
// error. Record deletes are allowed inside the active period.
func (s *TrashService) DeleteRecord(ctx context.Context, id uint, year, month string) (int64, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "DeleteRecord",
		trace.WithAttributes(
			observability.AttrRecordID.Int64(int64(id)),
			observability.AttrYear.String(year),
			observability.AttrMonth.String(month),
		),
	)
	defer span.End()

	n, err := repo.SoftDeleteRecord(ctx, s.DB, id, year, month, s.now())
	if err != nil {
		return 0, err
	}
	softDeleted.WithLabelValues(string(ScopeRecord)).Add(float64(n))
	return n, nil
}

// DeletePeriod moves every live record of (year, month) and then the period
// row itself to the trash. It refuses with ErrGuardViolation when (year,
// month) is the active period. The returned count is the number of records
// moved.
func (s *TrashService) DeletePeriod(ctx context.Context, year, month string, active ActivePeriod) (int64, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "DeletePeriod",
		trace.WithAttributes(
			observability.AttrYear.String(year),
			observability.AttrMonth.String(month),
		),
	)
	defer span.End()

	if err := checkPeriodArgs(year, month); err != nil {
		return 0, err
	}
	if year == active.Year && month == active.Month {
		return 0, ErrGuardViolation
	}

	at := s.now()
	var records, periods int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if records, err = repo.SoftDeleteRecords(ctx, tx, year, month, at); err != nil {
			return err
		}
		periods, err = repo.SoftDeletePeriods(ctx, tx, year, month, at)
		return err
	})
	if err != nil {
		return 0, err
	}
	softDeleted.WithLabelValues(string(ScopePeriod)).Add(float64(records + periods))
	return records, nil
}

// DeleteYear moves every live record and period row of year to the trash.
// The guard is year-level only: it refuses whenever year is the active year,
// whatever month is active.
func (s *TrashService) DeleteYear(ctx context.Context, year string, active ActivePeriod) (int64, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "DeleteYear",
		trace.WithAttributes(observability.AttrYear.String(year)),
	)
	defer span.End()

	if strings.TrimSpace(year) == "" {
		return 0, ErrInvalidYear
	}
	if year == active.Year {
		return 0, ErrGuardViolation
	}

	at := s.now()
	var records, periods int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if records, err = repo.SoftDeleteRecords(ctx, tx, year, "", at); err != nil {
			return err
		}
		periods, err = repo.SoftDeletePeriods(ctx, tx, year, "", at)
		return err
	})
	if err != nil {
		return 0, err
	}
	softDeleted.WithLabelValues(string(ScopeYear)).Add(float64(records + periods))
	return records, nil
}

// ClearPeriodRecords moves every live record of (year, month) to the trash
// and leaves the period row and its metadata live. It is guarded like
// DeletePeriod.
func (s *TrashService) ClearPeriodRecords(ctx context.Context, year, month string, active ActivePeriod) (int64, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "ClearPeriodRecords",
		trace.WithAttributes(
			observability.AttrYear.String(year),
			observability.AttrMonth.String(month),
		),
	)
	defer span.End()

	if err := checkPeriodArgs(year, month); err != nil {
		return 0, err
	}
	if year == active.Year && month == active.Month {
		return 0, ErrGuardViolation
	}

	n, err := repo.SoftDeleteRecords(ctx, s.DB, year, month, s.now())
	if err != nil {
		return 0, err
	}
	softDeleted.WithLabelValues("clear").Add(float64(n))
	return n, nil
}

// Recover decodes (scope, key) and takes the addressed rows out of the
// trash. It returns the number of rows restored (periods plus records).
func (s *TrashService) Recover(ctx context.Context, scope, key string) (int64, error) {
	sc, err := ParseRecoveryScope(scope)
	if err != nil {
		return 0, err
	}
	t, err := DecodeRecoveryKey(sc, key)
	if err != nil {
		return 0, err
	}
	return s.RecoverTarget(ctx, t)
}

// RecoverTarget restores the rows addressed by t.
//
//   - record: exactly that record, whatever the state of its period.
//   - period: the period row and every record of (year, month).
//   - year: every period row and every record of year.
func (s *TrashService) RecoverTarget(ctx context.Context, t RecoveryTarget) (int64, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "Recover",
		trace.WithAttributes(
			observability.AttrRecoveryScope.String(string(t.Scope)),
			observability.AttrYear.String(t.Year),
			observability.AttrMonth.String(t.Month),
		),
	)
	defer span.End()

	var total int64
	switch t.Scope {
	case ScopeRecord:
		n, err := repo.RestoreRecord(ctx, s.DB, t.RecordID)
		if err != nil {
			return 0, err
		}
		total = n
	case ScopePeriod, ScopeYear:
		month := t.Month
		if t.Scope == ScopeYear {
			month = ""
		}
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := repo.RestorePeriods(ctx, tx, t.Year, month)
			if err != nil {
				return err
			}
			r, err := repo.RestoreRecords(ctx, tx, t.Year, month)
			if err != nil {
				return err
			}
			total = p + r
			return nil
		})
		if err != nil {
			return 0, err
		}
	default:
		return 0, ErrUnknownRecoveryScope
	}
	recovered.WithLabelValues(string(t.Scope)).Add(float64(total))
	return total, nil
}

func checkPeriodArgs(year, month string) error {
	if strings.TrimSpace(year) == "" {
		return ErrInvalidYear
	}
	if strings.TrimSpace(month) == "" {
		return ErrInvalidMonth
	}
	return nil
}
