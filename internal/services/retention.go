package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SweepResult reports what a retention sweep removed.
type SweepResult struct {
	Cutoff      time.Time `json:"cutoff"`
	Records     int64     `json:"records"`
	Periods     int64     `json:"periods"`
	Idempotency int64     `json:"idempotency"`
}

// Total is the number of trash rows (records plus periods) purged.
func (r SweepResult) Total() int64 { return r.Records + r.Periods }

// RetentionSweeper permanently removes trash rows whose deletion is older
// than the retention window. There is no scheduler: callers run Sweep before
// each request (see middleware.RetentionSweep) or from the papelera CLI.
type RetentionSweeper struct {
	DB        *gorm.DB
	Clock     Clock
	Retention time.Duration
}

// NewRetentionSweeper constructs a sweeper; retention <= 0 means
// DefaultRetention.
func NewRetentionSweeper(db *gorm.DB, clock Clock, retention time.Duration) *RetentionSweeper {
	return &RetentionSweeper{DB: db, Clock: clockOrSystem(clock), Retention: retention}
}

// Sweep purges, in one transaction, every trashed record and period row
// with deleted_at < now - retention, plus expired idempotency entries. A
// row exactly at the cutoff survives.
func (s *RetentionSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	retention := s.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	now := clockOrSystem(s.Clock).Now().UTC()
	res := SweepResult{Cutoff: now.Add(-retention)}

	tr := otel.Tracer("services/RetentionSweeper")
	ctx, span := tr.Start(ctx, "Sweep",
		trace.WithAttributes(attribute.String("retention.cutoff", res.Cutoff.Format(time.RFC3339))),
	)
	defer span.End()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if res.Records, err = repo.PurgeRecords(ctx, tx, res.Cutoff); err != nil {
			return err
		}
		if res.Periods, err = repo.PurgePeriods(ctx, tx, res.Cutoff); err != nil {
			return err
		}
		res.Idempotency, err = repo.PurgeIdempotency(ctx, tx, now)
		return err
	})
	if err != nil {
		return SweepResult{Cutoff: res.Cutoff}, err
	}

	purged.WithLabelValues("record").Add(float64(res.Records))
	purged.WithLabelValues("period").Add(float64(res.Periods))
	span.SetAttributes(
		attribute.Int64("purged.records", res.Records),
		attribute.Int64("purged.periods", res.Periods),
	)
	return res, nil
}
