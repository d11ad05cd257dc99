package services

import (
	"context"
	"sort"
	"time"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// PeriodInfo is the metadata of a trashed period row.
type PeriodInfo struct {
	Responsible  string    `json:"responsible"`
	Municipality string    `json:"municipality"`
	Facility     string    `json:"facility"`
	DeletedAt    time.Time `json:"deleted_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RecordInfo is a trashed record as shown in the recovery view.
type RecordInfo struct {
	ID             uint      `json:"id"`
	ChildName      string    `json:"child_name"`
	BirthDate      string    `json:"birth_date"`
	MotherName     string    `json:"mother_name"`
	Community      string    `json:"community"`
	PendingVaccine string    `json:"pending_vaccine"`
	Pending        bool      `json:"pending"`
	DeletedAt      time.Time `json:"deleted_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// PeriodNode groups what sits in the trash for one month-variant. Metadata
// is nil when the period row itself is live (only its records were
// cleared); Records is empty when only the period row was deleted.
type PeriodNode struct {
	Month       string       `json:"month"`
	RecoveryKey string       `json:"recovery_key"`
	Metadata    *PeriodInfo  `json:"metadata,omitempty"`
	Records     []RecordInfo `json:"records"`
}

// YearNode groups a year's trashed month-variants in canonical month order.
// TotalDeleted counts period rows plus records beneath the year.
type YearNode struct {
	Year         string       `json:"year"`
	TotalDeleted int          `json:"total_deleted"`
	Months       []PeriodNode `json:"months"`
}

// Month returns the node for month, or nil.
func (y *YearNode) Month(month string) *PeriodNode {
	for i := range y.Months {
		if y.Months[i].Month == month {
			return &y.Months[i]
		}
	}
	return nil
}

// RecoveryTree is the year -> month-variant -> {metadata, records} view of
// everything currently in the trash. Years are newest first.
type RecoveryTree struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Retention   string     `json:"retention"`
	Years       []YearNode `json:"years"`
}

// Year returns the node for year, or nil.
func (t *RecoveryTree) Year(year string) *YearNode {
	for i := range t.Years {
		if t.Years[i].Year == year {
			return &t.Years[i]
		}
	}
	return nil
}

// Empty reports whether nothing is in the trash.
func (t *RecoveryTree) Empty() bool { return len(t.Years) == 0 }

// BuildRecoveryTree reads every trashed period row and record and groups
// them by year and month-variant. Each leaf carries its deletion time and
// expires_at = deleted_at + retention.
func (s *TrashService) BuildRecoveryTree(ctx context.Context) (*RecoveryTree, error) {
	tr := otel.Tracer("services/TrashService")
	ctx, span := tr.Start(ctx, "BuildRecoveryTree")
	defer span.End()

	periods, err := repo.ListDeletedPeriods(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	records, err := repo.ListDeletedRecords(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	tree := buildTree(periods, records, s.retention())
	tree.GeneratedAt = s.now()
	span.SetAttributes(
		attribute.Int("trash.periods", len(periods)),
		attribute.Int("trash.records", len(records)),
	)
	return tree, nil
}

func buildTree(periods []domain.Period, records []domain.Record, retention time.Duration) *RecoveryTree {
	type yearAcc struct {
		total  int
		months map[string]*PeriodNode
	}
	years := map[string]*yearAcc{}
	node := func(year, month string) *PeriodNode {
		y, ok := years[year]
		if !ok {
			y = &yearAcc{months: map[string]*PeriodNode{}}
			years[year] = y
		}
		y.total++
		n, ok := y.months[month]
		if !ok {
			n = &PeriodNode{
				Month:       month,
				RecoveryKey: PeriodRecoveryKey(year, month),
				Records:     []RecordInfo{},
			}
			y.months[month] = n
		}
		return n
	}
	stamp := func(at *time.Time) (time.Time, time.Time) {
		if at == nil {
			return time.Time{}, time.Time{}
		}
		return at.UTC(), at.UTC().Add(retention)
	}

	for _, p := range periods {
		del, exp := stamp(p.DeletedAt)
		node(p.Year, p.Month).Metadata = &PeriodInfo{
			Responsible:  p.Responsible,
			Municipality: p.Municipality,
			Facility:     p.Facility,
			DeletedAt:    del,
			ExpiresAt:    exp,
		}
	}
	for _, r := range records {
		del, exp := stamp(r.DeletedAt)
		n := node(r.Year, r.Month)
		n.Records = append(n.Records, RecordInfo{
			ID:             r.ID,
			ChildName:      r.ChildName,
			BirthDate:      r.BirthDate,
			MotherName:     r.MotherName,
			Community:      r.Community,
			PendingVaccine: r.PendingVaccine,
			Pending:        domain.HasPendingVaccine(r.PendingVaccine),
			DeletedAt:      del,
			ExpiresAt:      exp,
		})
	}

	tree := &RecoveryTree{Retention: retention.String(), Years: make([]YearNode, 0, len(years))}
	for year, acc := range years {
		yn := YearNode{Year: year, TotalDeleted: acc.total, Months: make([]PeriodNode, 0, len(acc.months))}
		for _, n := range acc.months {
			yn.Months = append(yn.Months, *n)
		}
		sort.SliceStable(yn.Months, func(i, j int) bool {
			return domain.LessMonth(yn.Months[i].Month, yn.Months[j].Month)
		})
		tree.Years = append(tree.Years, yn)
	}
	sort.Slice(tree.Years, func(i, j int) bool { return tree.Years[i].Year > tree.Years[j].Year })
	return tree
}
