// Package handlers exposes the HTTP endpoints of the susceptibles API.
//
// This file declares the service contracts the handlers depend on, the
// Handlers wiring type and the helpers shared by every endpoint: reading the
// caller's session, pagination clamping and the mapping of service errors to
// the JSON error envelope.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/http/middleware"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/services"
	"github.com/clinica/susceptibles/internal/session"
	"github.com/clinica/susceptibles/internal/utils"
)

//
// Service contracts (context-aware)
//

// PeriodService manages years, month-variants and their metadata.
type PeriodService interface {
	SelectYear(ctx context.Context, year string) (int64, error)
	ListYears(ctx context.Context) ([]repo.YearSummary, error)
	ListPeriods(ctx context.Context, year string) ([]domain.Period, error)
	Stats(ctx context.Context, year string) (int64, *time.Time, error)
	EnsureSelectable(ctx context.Context, year, month string) (*domain.Period, error)
	Duplicate(ctx context.Context, year, source string) (*domain.Period, error)
	Metadata(ctx context.Context, year, month string) (*domain.Period, error)
	UpdateMetadata(ctx context.Context, year, month string, m services.Metadata) (*domain.Period, error)
}

// RecordService manages the records of the active period.
type RecordService interface {
	Create(ctx context.Context, active services.ActivePeriod, in services.RecordInput) (*domain.Record, error)
	Get(ctx context.Context, active services.ActivePeriod, id uint) (*domain.Record, error)
	Update(ctx context.Context, active services.ActivePeriod, id uint, in services.RecordInput) (*domain.Record, error)
	ListPage(ctx context.Context, active services.ActivePeriod, query string, page, pageSize int) ([]domain.Record, int64, error)
	Totals(ctx context.Context, active services.ActivePeriod) (services.Totals, error)
	Stats(ctx context.Context, active services.ActivePeriod) (int64, *time.Time, error)
}

// TrashService moves rows in and out of the trash.
type TrashService interface {
	DeleteRecord(ctx context.Context, id uint, year, month string) (int64, error)
	DeletePeriod(ctx context.Context, year, month string, active services.ActivePeriod) (int64, error)
	DeleteYear(ctx context.Context, year string, active services.ActivePeriod) (int64, error)
	ClearPeriodRecords(ctx context.Context, year, month string, active services.ActivePeriod) (int64, error)
	Recover(ctx context.Context, scope, key string) (int64, error)
	BuildRecoveryTree(ctx context.Context) (*services.RecoveryTree, error)
}

// AuthService checks administrator credentials.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// IdempotencyStore records and replays POST /records results.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, periodKey, key string, now time.Time) (recordID uint, found bool)
	Remember(ctx context.Context, userID, periodKey, key string, recordID uint, status int)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. Idem may be nil, which disables
// Idempotency-Key replays.
type Handlers struct {
	periodSvc PeriodService
	recordSvc RecordService
	trashSvc  TrashService
	authSvc   AuthService
	idem      IdempotencyStore
}

// New constructs and returns a Handlers instance bound to the given services.
func New(p PeriodService, r RecordService, t TrashService, a AuthService, idem IdempotencyStore) *Handlers {
	return &Handlers{periodSvc: p, recordSvc: r, trashSvc: t, authSvc: a, idem: idem}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(p utils.Page, total int64) Pagination {
	return Pagination{
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
		HasNext:    p.HasNext(total),
	}
}

//
// Helpers
//

// clampPagination reads page and page_size; see utils.ParsePage.
func clampPagination(c *gin.Context) utils.Page {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"))
}

// sess returns the request's session or answers 500 when the route was
// mounted without session.Middleware.
func sess(c *gin.Context) (*session.Session, bool) {
	s := session.FromContext(c)
	if s == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "session unavailable")
		return nil, false
	}
	return s, true
}

// activePeriod reads the session's selection; no session means no selection.
func activePeriod(c *gin.Context) services.ActivePeriod {
	s := session.FromContext(c)
	if s == nil {
		return services.ActivePeriod{}
	}
	y, m := s.ActivePeriod()
	return services.ActivePeriod{Year: y, Month: m}
}

// userID returns the authenticated user set by middleware.RequireUser.
func userID(c *gin.Context) string {
	return c.GetString(middleware.CtxKeyUserID)
}

// failService maps a service error to the JSON error envelope. fallback is
// the code used for unexpected errors (500).
func failService(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrGuardViolation):
		fail(c, http.StatusConflict, ErrCodeGuardViolation, err.Error())
	case errors.Is(err, services.ErrUnknownRecoveryScope):
		fail(c, http.StatusBadRequest, ErrCodeUnknownScope, err.Error())
	case errors.Is(err, services.ErrInvalidRecoveryKey):
		fail(c, http.StatusBadRequest, ErrCodeInvalidKey, err.Error())
	case errors.Is(err, services.ErrDuplicateKey):
		fail(c, http.StatusConflict, ErrCodeConflict, "period already exists, reload and retry")
	case errors.Is(err, services.ErrPeriodNotFound),
		errors.Is(err, services.ErrRecordNotFound),
		errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNoActivePeriod):
		fail(c, http.StatusPreconditionFailed, ErrCodeNoActivePeriod, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrInvalidYear),
		errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrEmptyChildName):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, fallback, "internal error")
	}
}
