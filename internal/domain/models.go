// Package domain defines the persistence models for working periods and
// susceptible child records. These types are mapped with GORM and form the
// core data layer of the application.
package domain

import (
	"time"
)

// DefaultMetadata is the placeholder stored in every free-text period
// metadata column until an administrator fills it in.
const DefaultMetadata = "PENDING"

// Period represents one working period: a (year, month-variant) pair with its
// own descriptive metadata and soft-delete state.
//
// Fields:
//   - Year: free-form year token, typically four digits.
//   - Month: canonical month name ("Enero") or a numbered duplicate
//     ("Enero (2)").
//   - Responsible / Municipality / Facility: free-text metadata.
//   - Deleted / DeletedAt: soft-delete flag and timestamp. DeletedAt is nil
//     while the row is live.
//
// (Year, Month) is the primary key, so a variant name stays reserved while
// its row sits in the trash.
type Period struct {
	Year         string     `json:"year"                 gorm:"type:varchar(16);primaryKey"`
	Month        string     `json:"month"                gorm:"type:varchar(64);primaryKey"`
	Responsible  string     `json:"responsible"          gorm:"type:text;not null;default:'PENDING'"`
	Municipality string     `json:"municipality"         gorm:"type:text;not null;default:'PENDING'"`
	Facility     string     `json:"facility"             gorm:"type:text;not null;default:'PENDING'"`
	Deleted      bool       `json:"deleted"              gorm:"not null;default:false;index:idx_periods_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"index:idx_periods_deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Period.
func (Period) TableName() string { return "periods" }

// Key returns the (year, month-variant) identity of the period.
func (p Period) Key() PeriodKey { return PeriodKey{Year: p.Year, Month: p.Month} }

// Record represents one susceptible child tracked under a period.
//
// The (Year, Month) pair references a Period by value only. No foreign key
// is declared: a record may outlive, or be restored independently of, its
// period row.
type Record struct {
	ID             uint       `json:"id"                   gorm:"primaryKey;autoIncrement"`
	ChildName      string     `json:"child_name"           gorm:"type:text;not null"`
	BirthDate      string     `json:"birth_date"           gorm:"type:varchar(32)"`
	MotherName     string     `json:"mother_name"          gorm:"type:text"`
	Community      string     `json:"community"            gorm:"type:text"`
	PendingVaccine string     `json:"pending_vaccine"      gorm:"type:text"`
	Year           string     `json:"year"                 gorm:"type:varchar(16);not null;index:idx_records_period,priority:1"`
	Month          string     `json:"month"                gorm:"type:varchar(64);not null;index:idx_records_period,priority:2"`
	Deleted        bool       `json:"deleted"              gorm:"not null;default:false;index:idx_records_period,priority:3"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Record.
func (Record) TableName() string { return "records" }

// Key returns the period the record belongs to.
func (r Record) Key() PeriodKey { return PeriodKey{Year: r.Year, Month: r.Month} }

// PeriodKey identifies a period by year and month-variant.
type PeriodKey struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

// IsZero reports whether neither year nor month is set.
func (k PeriodKey) IsZero() bool { return k.Year == "" && k.Month == "" }

// Complete reports whether both year and month are set.
func (k PeriodKey) Complete() bool { return k.Year != "" && k.Month != "" }

// String renders the key as "<year>/<month>".
func (k PeriodKey) String() string { return k.Year + "/" + k.Month }
