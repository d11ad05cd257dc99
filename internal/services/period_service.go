// Package services – PeriodService
//
// This file implements PeriodService, which owns the period metadata store:
// bootstrapping a year with its twelve canonical months, listing years and
// month-variants in canonical order, duplicating a month-variant, and editing
// period metadata.
//
// Service-level errors (ErrPeriodNotFound, ErrDuplicateKey, ...) are returned
// for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/observability"
	"github.com/clinica/susceptibles/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PeriodRepo defines the repository contract required by PeriodService.
type PeriodRepo interface {
	// CreateYear inserts the 12 canonical months, skipping existing rows.
	CreateYear(ctx context.Context, db *gorm.DB, year string) (int64, error)

	// HasLiveYear reports whether the year's live January row exists.
	HasLiveYear(ctx context.Context, db *gorm.DB, year string) (bool, error)

	// ListYears returns live years, newest first.
	ListYears(ctx context.Context, db *gorm.DB) ([]repo.YearSummary, error)

	// ListPeriods returns the live periods of a year.
	ListPeriods(ctx context.Context, db *gorm.DB, year string) ([]domain.Period, error)

	// GetPeriod fetches one live period.
	GetPeriod(ctx context.Context, db *gorm.DB, year, month string) (*domain.Period, error)

	// ListVariants returns live variant names of year starting with base.
	ListVariants(ctx context.Context, db *gorm.DB, year, base string) ([]string, error)

	// InsertPeriod inserts a new period row.
	InsertPeriod(ctx context.Context, db *gorm.DB, p *domain.Period) error

	// UpdatePeriodMetadata overwrites a live period's metadata.
	UpdatePeriodMetadata(ctx context.Context, db *gorm.DB, year, month, responsible, municipality, facility string) error
}

// Metadata is the editable free-text description of a period.
type Metadata struct {
	Responsible  string `json:"responsible"`
	Municipality string `json:"municipality"`
	Facility     string `json:"facility"`
}

// PeriodService manages years and month-variants.
type PeriodService struct {
	DB   *gorm.DB
	Repo PeriodRepo

	// MetadataMaxLen caps stored metadata fields by rune length.
	MetadataMaxLen int
}

// NewPeriodService constructs a PeriodService with default limits.
func NewPeriodService(db *gorm.DB, r PeriodRepo) *PeriodService {
	return &PeriodService{DB: db, Repo: r, MetadataMaxLen: 120}
}

// maxYearLen mirrors the periods.year column width.
const maxYearLen = 16

// NormalizeYear trims a year token and rejects empty or oversized values and
// values containing the recovery-key separator.
func NormalizeYear(year string) (string, error) {
	year = strings.TrimSpace(year)
	if year == "" || utf8.RuneCountInString(year) > maxYearLen || strings.Contains(year, "/") {
		return "", ErrInvalidYear
	}
	return year, nil
}

// SelectYear makes year usable: when it has no live January row the twelve
// canonical months are created with default metadata. It returns the number
// of month rows created (0 when the year already existed).
func (s *PeriodService) SelectYear(ctx context.Context, year string) (int64, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "SelectYear",
		trace.WithAttributes(observability.AttrYear.String(year)),
	)
	defer span.End()

	year, err := NormalizeYear(year)
	if err != nil {
		return 0, err
	}
	ok, err := s.Repo.HasLiveYear(ctx, s.DB, year)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}
	return s.Repo.CreateYear(ctx, s.DB, year)
}

// ListYears returns the live years with their January metadata.
func (s *PeriodService) ListYears(ctx context.Context) ([]repo.YearSummary, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "ListYears")
	defer span.End()

	ys, err := s.Repo.ListYears(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if ys == nil {
		ys = []repo.YearSummary{}
	}
	return ys, nil
}

// ListPeriods returns the live month-variants of year in canonical order.
func (s *PeriodService) ListPeriods(ctx context.Context, year string) ([]domain.Period, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "ListPeriods",
		trace.WithAttributes(observability.AttrYear.String(year)),
	)
	defer span.End()

	year, err := NormalizeYear(year)
	if err != nil {
		return nil, err
	}
	ps, err := s.Repo.ListPeriods(ctx, s.DB, year)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Period{}
	}
	domain.SortPeriods(ps)
	return ps, nil
}

// Stats returns the live period count of year and its last update, used
// for ETags.
func (s *PeriodService) Stats(ctx context.Context, year string) (int64, *time.Time, error) {
	year, err := NormalizeYear(year)
	if err != nil {
		return 0, nil, err
	}
	return repo.PeriodsStats(ctx, s.DB, year)
}

// EnsureSelectable returns the live period (year, month) so it can become
// the session's active period, or ErrPeriodNotFound.
func (s *PeriodService) EnsureSelectable(ctx context.Context, year, month string) (*domain.Period, error) {
	year, err := NormalizeYear(year)
	if err != nil {
		return nil, err
	}
	month = domain.NormalizeMonth(month)
	if month == "" {
		return nil, ErrInvalidMonth
	}
	p, err := s.Repo.GetPeriod(ctx, s.DB, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return p, nil
}

// Duplicate creates the next numbered variant of source's base month in
// year, copying source's metadata. Records are not copied. A name collision
// (for instance with a variant still in the trash) yields ErrDuplicateKey;
// the caller should reload and retry.
func (s *PeriodService) Duplicate(ctx context.Context, year, source string) (*domain.Period, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "Duplicate",
		trace.WithAttributes(
			observability.AttrYear.String(year),
			attribute.String("period.source", source),
		),
	)
	defer span.End()

	src, err := s.EnsureSelectable(ctx, year, source)
	if err != nil {
		return nil, err
	}

	base := domain.BaseMonth(src.Month)
	existing, err := s.Repo.ListVariants(ctx, s.DB, src.Year, base)
	if err != nil {
		return nil, err
	}
	// LIKE 'Mayo%' would also match an unrelated custom base such as "Mayoral".
	same := existing[:0]
	for _, v := range existing {
		if domain.BaseMonth(v) == base {
			same = append(same, v)
		}
	}

	p := &domain.Period{
		Year:         src.Year,
		Month:        domain.NextVariant(base, same),
		Responsible:  src.Responsible,
		Municipality: src.Municipality,
		Facility:     src.Facility,
	}
	span.SetAttributes(observability.AttrMonth.String(p.Month))
	if err := s.Repo.InsertPeriod(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return p, nil
}

// Metadata returns the metadata of the live period (year, month).
func (s *PeriodService) Metadata(ctx context.Context, year, month string) (*domain.Period, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "Metadata")
	defer span.End()

	return s.EnsureSelectable(ctx, year, month)
}

// UpdateMetadata overwrites the metadata of the live period (year, month).
// Blank fields fall back to the PENDING placeholder.
func (s *PeriodService) UpdateMetadata(ctx context.Context, year, month string, m Metadata) (*domain.Period, error) {
	tr := otel.Tracer("services/PeriodService")
	ctx, span := tr.Start(ctx, "UpdateMetadata",
		trace.WithAttributes(
			observability.AttrYear.String(year),
			observability.AttrMonth.String(month),
		),
	)
	defer span.End()

	p, err := s.EnsureSelectable(ctx, year, month)
	if err != nil {
		return nil, err
	}
	m = Metadata{
		Responsible:  s.field(m.Responsible),
		Municipality: s.field(m.Municipality),
		Facility:     s.field(m.Facility),
	}
	err = s.Repo.UpdatePeriodMetadata(ctx, s.DB, p.Year, p.Month, m.Responsible, m.Municipality, m.Facility)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return s.EnsureSelectable(ctx, p.Year, p.Month)
}

// field normalizes one metadata value.
func (s *PeriodService) field(v string) string {
	v = collapseSpaces(v)
	if v == "" {
		return domain.DefaultMetadata
	}
	if s.MetadataMaxLen > 0 && utf8.RuneCountInString(v) > s.MetadataMaxLen {
		v = string([]rune(v)[:s.MetadataMaxLen])
	}
	return v
}
