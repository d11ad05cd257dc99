// Package services – RecordService
//
// This file implements RecordService, which manages susceptible child records
// inside the session's active period: create, fetch, update, paginated search
// and the pending-vaccine totals. Deleting a record is a trash operation and
// lives in TrashService.
//
// Every method takes the ActivePeriod explicitly and fails with
// ErrNoActivePeriod when the selection is incomplete.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/observability"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RecordRepo defines the repository contract required by RecordService.
type RecordRepo interface {
	CreateRecord(ctx context.Context, db *gorm.DB, year, month string, f repo.RecordFields) (*domain.Record, error)
	GetRecord(ctx context.Context, db *gorm.DB, id uint, year, month string) (*domain.Record, error)
	UpdateRecord(ctx context.Context, db *gorm.DB, id uint, year, month string, f repo.RecordFields) error
	ListRecordsPage(ctx context.Context, db *gorm.DB, year, month, query string, offset, limit int) ([]domain.Record, error)
	CountRecords(ctx context.Context, db *gorm.DB, year, month, query string) (int64, error)
	CountPending(ctx context.Context, db *gorm.DB, year, month string) (int64, error)
	RecordsStats(ctx context.Context, db *gorm.DB, year, month string) (int64, *time.Time, error)
}

// RecordInput carries the user-editable fields of a record.
type RecordInput struct {
	ChildName      string `json:"child_name"`
	BirthDate      string `json:"birth_date"`
	MotherName     string `json:"mother_name"`
	Community      string `json:"community"`
	PendingVaccine string `json:"pending_vaccine"`
}

// Totals summarizes the active period.
type Totals struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// RecordService provides record-level operations scoped to the active period.
type RecordService struct {
	DB   *gorm.DB
	Repo RecordRepo

	// FieldMaxLen caps every stored text field by rune length.
	FieldMaxLen int
	// QueryMaxLen caps search queries by rune length.
	QueryMaxLen int
}

// NewRecordService constructs a RecordService with default limits.
func NewRecordService(db *gorm.DB, r RecordRepo) *RecordService {
	return &RecordService{DB: db, Repo: r, FieldMaxLen: 200, QueryMaxLen: 100}
}

// Create inserts a record into the active period.
func (s *RecordService) Create(ctx context.Context, active ActivePeriod, in RecordInput) (*domain.Record, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Create", trace.WithAttributes(periodAttrs(active)...))
	defer span.End()

	if !active.Complete() {
		return nil, ErrNoActivePeriod
	}
	f, err := s.fields(in)
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateRecord(ctx, s.DB, active.Year, active.Month, f)
}

// Get fetches a live record of the active period.
func (s *RecordService) Get(ctx context.Context, active ActivePeriod, id uint) (*domain.Record, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(append(periodAttrs(active), observability.AttrRecordID.Int64(int64(id)))...),
	)
	defer span.End()

	if !active.Complete() {
		return nil, ErrNoActivePeriod
	}
	r, err := s.Repo.GetRecord(ctx, s.DB, id, active.Year, active.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return r, nil
}

// Update overwrites the fields of a live record of the active period and
// returns the stored row.
func (s *RecordService) Update(ctx context.Context, active ActivePeriod, id uint, in RecordInput) (*domain.Record, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(append(periodAttrs(active), observability.AttrRecordID.Int64(int64(id)))...),
	)
	defer span.End()

	if !active.Complete() {
		return nil, ErrNoActivePeriod
	}
	f, err := s.fields(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateRecord(ctx, s.DB, id, active.Year, active.Month, f); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return s.Get(ctx, active, id)
}

// ListPage returns a page of live records of the active period, newest
// first, filtered by child name or community when query is non-empty. It
// applies defaults for invalid page/pageSize and returns the filtered total.
func (s *RecordService) ListPage(ctx context.Context, active ActivePeriod, query string, page, pageSize int) ([]domain.Record, int64, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(append(periodAttrs(active),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		)...),
	)
	defer span.End()

	if !active.Complete() {
		return nil, 0, ErrNoActivePeriod
	}
	p := utils.Page{Number: page, Size: pageSize}.Normalize()
	query = s.NormalizeQuery(query)

	total, err := s.Repo.CountRecords(ctx, s.DB, active.Year, active.Month, query)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Record{}, 0, nil
	}

	items, err := s.Repo.ListRecordsPage(ctx, s.DB, active.Year, active.Month, query, p.Offset(), p.Size)
	return items, total, err
}

// Totals returns the live record count and how many still owe a vaccine.
func (s *RecordService) Totals(ctx context.Context, active ActivePeriod) (Totals, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Totals", trace.WithAttributes(periodAttrs(active)...))
	defer span.End()

	if !active.Complete() {
		return Totals{}, ErrNoActivePeriod
	}
	total, err := s.Repo.CountRecords(ctx, s.DB, active.Year, active.Month, "")
	if err != nil {
		return Totals{}, err
	}
	pending, err := s.Repo.CountPending(ctx, s.DB, active.Year, active.Month)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Total: total, Pending: pending}, nil
}

// Stats returns the live record count and last update of the active period,
// used for ETags.
func (s *RecordService) Stats(ctx context.Context, active ActivePeriod) (int64, *time.Time, error) {
	if !active.Complete() {
		return 0, nil, ErrNoActivePeriod
	}
	return s.Repo.RecordsStats(ctx, s.DB, active.Year, active.Month)
}

// NormalizeQuery NFC-normalizes a search query, collapses whitespace and
// clips it to QueryMaxLen runes.
func (s *RecordService) NormalizeQuery(q string) string {
	q = collapseSpaces(norm.NFC.String(q))
	if s.QueryMaxLen > 0 && utf8.RuneCountInString(q) > s.QueryMaxLen {
		q = string([]rune(q)[:s.QueryMaxLen])
	}
	return q
}

// fields validates and normalizes a RecordInput.
func (s *RecordService) fields(in RecordInput) (repo.RecordFields, error) {
	f := repo.RecordFields{
		ChildName:      s.clip(in.ChildName),
		BirthDate:      s.clip(in.BirthDate),
		MotherName:     s.clip(in.MotherName),
		Community:      s.clip(in.Community),
		PendingVaccine: s.clip(in.PendingVaccine),
	}
	if f.ChildName == "" {
		return f, ErrEmptyChildName
	}
	return f, nil
}

func (s *RecordService) clip(v string) string {
	v = collapseSpaces(norm.NFC.String(v))
	if s.FieldMaxLen > 0 && utf8.RuneCountInString(v) > s.FieldMaxLen {
		return string([]rune(v)[:s.FieldMaxLen])
	}
	return v
}

func periodAttrs(a ActivePeriod) []attribute.KeyValue {
	return observability.PeriodAttrs(a.Year, a.Month)
}

// collapseSpaces trims whitespace and collapses runs of it to one space.
func collapseSpaces(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
