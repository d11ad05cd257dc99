package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// repoShim adapts the repo package functions to the service interfaces.
type repoShim struct{}

func (repoShim) CreateYear(ctx context.Context, db *gorm.DB, year string) (int64, error) {
	return repo.CreateYear(ctx, db, year)
}
func (repoShim) HasLiveYear(ctx context.Context, db *gorm.DB, year string) (bool, error) {
	return repo.HasLiveYear(ctx, db, year)
}
func (repoShim) ListYears(ctx context.Context, db *gorm.DB) ([]repo.YearSummary, error) {
	return repo.ListYears(ctx, db)
}
func (repoShim) ListPeriods(ctx context.Context, db *gorm.DB, year string) ([]domain.Period, error) {
	return repo.ListPeriods(ctx, db, year)
}
func (repoShim) GetPeriod(ctx context.Context, db *gorm.DB, year, month string) (*domain.Period, error) {
	return repo.GetPeriod(ctx, db, year, month)
}
func (repoShim) ListVariants(ctx context.Context, db *gorm.DB, year, base string) ([]string, error) {
	return repo.ListVariants(ctx, db, year, base)
}
func (repoShim) InsertPeriod(ctx context.Context, db *gorm.DB, p *domain.Period) error {
	return repo.InsertPeriod(ctx, db, p)
}
func (repoShim) UpdatePeriodMetadata(ctx context.Context, db *gorm.DB, year, month, r, m, f string) error {
	return repo.UpdatePeriodMetadata(ctx, db, year, month, r, m, f)
}
func (repoShim) CreateRecord(ctx context.Context, db *gorm.DB, year, month string, f repo.RecordFields) (*domain.Record, error) {
	return repo.CreateRecord(ctx, db, year, month, f)
}
func (repoShim) GetRecord(ctx context.Context, db *gorm.DB, id uint, year, month string) (*domain.Record, error) {
	return repo.GetRecord(ctx, db, id, year, month)
}
func (repoShim) UpdateRecord(ctx context.Context, db *gorm.DB, id uint, year, month string, f repo.RecordFields) error {
	return repo.UpdateRecord(ctx, db, id, year, month, f)
}
func (repoShim) ListRecordsPage(ctx context.Context, db *gorm.DB, year, month, q string, offset, limit int) ([]domain.Record, error) {
	return repo.ListRecordsPage(ctx, db, year, month, q, offset, limit)
}
func (repoShim) CountRecords(ctx context.Context, db *gorm.DB, year, month, q string) (int64, error) {
	return repo.CountRecords(ctx, db, year, month, q)
}
func (repoShim) CountPending(ctx context.Context, db *gorm.DB, year, month string) (int64, error) {
	return repo.CountPending(ctx, db, year, month)
}
func (repoShim) RecordsStats(ctx context.Context, db *gorm.DB, year, month string) (int64, *time.Time, error) {
	return repo.RecordsStats(ctx, db, year, month)
}

var (
	_ PeriodRepo = repoShim{}
	_ RecordRepo = repoShim{}
)

// snapshot captures the deletion state of every row for equality checks.
type snapshot struct {
	periods map[string]bool
	records map[uint]bool
}

func takeSnapshot(t *testing.T, db *gorm.DB) snapshot {
	t.Helper()
	var ps []domain.Period
	var rs []domain.Record
	if err := db.Find(&ps).Error; err != nil {
		t.Fatalf("load periods: %v", err)
	}
	if err := db.Find(&rs).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	s := snapshot{periods: map[string]bool{}, records: map[uint]bool{}}
	for _, p := range ps {
		s.periods[p.Key().String()] = p.Deleted
	}
	for _, r := range rs {
		s.records[r.ID] = r.Deleted
	}
	return s
}

func (a snapshot) equal(b snapshot) bool {
	if len(a.periods) != len(b.periods) || len(a.records) != len(b.records) {
		return false
	}
	for k, v := range a.periods {
		if bv, ok := b.periods[k]; !ok || bv != v {
			return false
		}
	}
	for k, v := range a.records {
		if bv, ok := b.records[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func mustCreateYear(t *testing.T, db *gorm.DB, year string) {
	t.Helper()
	if _, err := repo.CreateYear(context.Background(), db, year); err != nil {
		t.Fatalf("CreateYear(%s): %v", year, err)
	}
}

func mustRecord(t *testing.T, db *gorm.DB, year, month, child, vaccine string) *domain.Record {
	t.Helper()
	r, err := repo.CreateRecord(context.Background(), db, year, month, repo.RecordFields{ChildName: child, PendingVaccine: vaccine})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	return r
}

func loadRecord(t *testing.T, db *gorm.DB, id uint) domain.Record {
	t.Helper()
	var r domain.Record
	if err := db.First(&r, id).Error; err != nil {
		t.Fatalf("load record %d: %v", id, err)
	}
	return r
}

func loadPeriod(t *testing.T, db *gorm.DB, year, month string) domain.Period {
	t.Helper()
	var p domain.Period
	if err := db.First(&p, "year = ? AND month = ?", year, month).Error; err != nil {
		t.Fatalf("load period %s/%s: %v", year, month, err)
	}
	return p
}
