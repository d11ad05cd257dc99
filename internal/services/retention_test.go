package services

import (
	"context"
	"testing"
	"time"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/testutil"
)

func TestRetentionSweep_ThirtyDayWindow(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	mustCreateYear(t, db, "2024")
	old := mustRecord(t, db, "2024", "Enero", "old", "")
	fresh := mustRecord(t, db, "2024", "Enero", "fresh", "")
	live := mustRecord(t, db, "2024", "Enero", "live", "")

	if _, err := repo.SoftDeleteRecord(ctx, db, old.ID, "2024", "Enero", now.Add(-31*day)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.SoftDeleteRecord(ctx, db, fresh.ID, "2024", "Enero", now.Add(-29*day)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.SoftDeletePeriods(ctx, db, "2024", "Marzo", now.Add(-31*day)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.SoftDeletePeriods(ctx, db, "2024", "Abril", now.Add(-29*day)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sw := NewRetentionSweeper(db, testutil.NewFixedClock(now), 0)
	res, err := sw.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Records != 1 || res.Periods != 1 || res.Total() != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Cutoff.Equal(now.Add(-30 * day)) {
		t.Fatalf("cutoff = %v", res.Cutoff)
	}

	var n int64
	db.Model(&domain.Record{}).Where("id = ?", old.ID).Count(&n)
	if n != 0 {
		t.Fatalf("31-day-old record survived the sweep")
	}
	if r := loadRecord(t, db, fresh.ID); !r.Deleted {
		t.Fatalf("29-day-old record should remain in the trash")
	}
	if r := loadRecord(t, db, live.ID); r.Deleted {
		t.Fatalf("live record touched")
	}
	db.Model(&domain.Period{}).Where("year = ? AND month = ?", "2024", "Marzo").Count(&n)
	if n != 0 {
		t.Fatalf("31-day-old period survived the sweep")
	}
	if p := loadPeriod(t, db, "2024", "Abril"); !p.Deleted {
		t.Fatalf("29-day-old period should remain in the trash")
	}

	// Purged is terminal: sweeping again removes nothing.
	res, err = sw.Sweep(ctx)
	if err != nil || res.Total() != 0 {
		t.Fatalf("second sweep = (%+v, %v)", res, err)
	}
}

func TestRetentionSweep_CustomWindowAndIdempotency(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	r := mustRecord(t, db, "2024", "Enero", "x", "")
	if _, err := repo.SoftDeleteRecord(ctx, db, r.ID, "2024", "Enero", now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	expired := &domain.Idempotency{ID: "e", UserID: "u", PeriodKey: "2024/Enero", Key: "k", RecordID: r.ID, Status: 201, CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)}
	if err := db.Create(expired).Error; err != nil {
		t.Fatalf("seed idempotency: %v", err)
	}

	res, err := NewRetentionSweeper(db, testutil.NewFixedClock(now), time.Hour).Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Records != 1 || res.Idempotency != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRetentionSweep_ErrorWithoutSchema(t *testing.T) {
	db := newSvcDB(t)
	if err := db.Migrator().DropTable(&domain.Record{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := NewRetentionSweeper(db, nil, 0).Sweep(context.Background()); err == nil {
		t.Fatalf("expected error when records table is missing")
	}
}
