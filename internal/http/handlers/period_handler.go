// Period HTTP handlers.
//
// This file exposes the selector and the period-level endpoints:
//   - GET    /years                              (live years, newest first)
//   - POST   /years                              (select or bootstrap a year)
//   - DELETE /years/{year}                       (move a whole year to the trash)
//   - GET    /years/{year}/periods               (month-variants, ETag support)
//   - POST   /years/{year}/periods/select        (make a period active)
//   - POST   /years/{year}/periods/duplicate     (create the next variant)
//   - DELETE /years/{year}/periods/{month}       (move a period to the trash)
//   - POST   /years/{year}/periods/{month}/clear (trash a period's records)
//   - GET    /period/metadata, PUT /period/metadata
//
// Selecting changes the session: choosing a year clears the month, listing
// a year's periods makes it the active year, and a duplicated month becomes
// the active period.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/http/middleware"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/services"
	"github.com/clinica/susceptibles/internal/session"
)

//
// DTOs
//

// SelectYearRequest is the JSON payload for POST /years.
type SelectYearRequest struct {
	Year string `json:"year" binding:"required,year" example:"2024"`
}

// SelectYearResponse reports the selected year and how many months were
// bootstrapped (0 when the year already existed).
type SelectYearResponse struct {
	Year    string `json:"year" example:"2024"`
	Created int64  `json:"created" example:"12"`
}

// ListYearsResponse wraps the live years.
type ListYearsResponse struct {
	Years []repo.YearSummary `json:"years"`
}

// ListPeriodsResponse wraps a year's live month-variants in canonical order.
type ListPeriodsResponse struct {
	Year    string          `json:"year" example:"2024"`
	Periods []domain.Period `json:"periods"`
}

// SelectPeriodRequest is the JSON payload for POST /years/{year}/periods/select.
type SelectPeriodRequest struct {
	Month string `json:"month" binding:"required,monthvariant" example:"Enero (2)"`
}

// DuplicatePeriodRequest is the JSON payload for POST /years/{year}/periods/duplicate.
type DuplicatePeriodRequest struct {
	Source string `json:"source" binding:"required,monthvariant" example:"Enero"`
}

// MetadataRequest is the JSON payload for PUT /period/metadata. Blank
// fields are stored as PENDING.
type MetadataRequest struct {
	Responsible  string `json:"responsible" binding:"max=200" example:"Dra. Ruiz"`
	Municipality string `json:"municipality" binding:"max=200" example:"San Marcos"`
	Facility     string `json:"facility" binding:"max=200" example:"Centro de Salud Norte"`
}

// TrashedResponse reports how many records a delete moved to the trash.
type TrashedResponse struct {
	RecordsTrashed int64 `json:"records_trashed" example:"14"`
}

//
// Handlers
//

// ListYears godoc
// @ID          listYears
// @Summary     List years
// @Description Returns the live years (those with a live Enero row), newest first, with their January metadata.
// @Tags        Periods
// @Produce     json
// @Success     200  {object}  handlers.ListYearsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Login required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /years [get]
func (h *Handlers) ListYears(c *gin.Context) {
	ys, err := h.periodSvc.ListYears(c.Request.Context())
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListYearsResponse{Years: ys})
}

// SelectYear godoc
// @ID          selectYear
// @Summary     Select a year
// @Description Makes the year active, creating its twelve canonical months when it has no live Enero row. The active month is cleared.
// @Tags        Periods
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SelectYearRequest  true  "Year"
// @Success     200   {object}  handlers.SelectYearResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /years [post]
func (h *Handlers) SelectYear(c *gin.Context) {
	var req SelectYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}
	year := strings.TrimSpace(req.Year)

	created, err := h.periodSvc.SelectYear(c.Request.Context(), year)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	s, okS := sess(c)
	if !okS {
		return
	}
	s.SetActiveYear(year)
	s.ClearActiveMonth()

	if created > 0 {
		lg := middleware.LoggerFrom(c)
		lg.Info().Str("year", year).Int64("months", created).Msg("year bootstrapped")
	}
	ok(c, http.StatusOK, SelectYearResponse{Year: year, Created: created})
}

// DeleteYear godoc
// @ID          deleteYear
// @Summary     Move a year to the trash
// @Description Soft-deletes every live record and period of the year. Refused while the year is active.
// @Tags        Periods
// @Produce     json
// @Param       year  path      string  true  "Year"  example(2023)
// @Success     200   {object}  handlers.TrashedResponse
// @Failure     409   {object}  handlers.ErrorResponse  "Year is active"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /years/{year} [delete]
func (h *Handlers) DeleteYear(c *gin.Context) {
	n, err := h.trashSvc.DeleteYear(c.Request.Context(), c.Param("year"), activePeriod(c))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, TrashedResponse{RecordsTrashed: n})
}

// ListPeriods godoc
// @ID          listPeriods
// @Summary     List a year's month-variants
// @Description Returns live periods in canonical month order and makes the year active. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Periods
// @Produce     json
// @Param       year           path    string  true   "Year"  example(2024)
// @Param       If-None-Match  header  string  false  "Weak ETag from a previous response"
// @Success     200  {object}  handlers.ListPeriodsResponse
// @Success     304  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /years/{year}/periods [get]
func (h *Handlers) ListPeriods(c *gin.Context) {
	ctx := c.Request.Context()
	year := c.Param("year")

	s, okS := sess(c)
	if !okS {
		return
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.periodSvc.Stats(ctx, year); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"periods:%s:%d:%d"`, year, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			s.SetActiveYear(year)
			c.Status(http.StatusNotModified)
			return
		}
	}

	ps, err := h.periodSvc.ListPeriods(ctx, year)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	s.SetActiveYear(year)
	ok(c, http.StatusOK, ListPeriodsResponse{Year: year, Periods: ps})
}

// SelectPeriod godoc
// @ID          selectPeriod
// @Summary     Make a period active
// @Tags        Periods
// @Accept      json
// @Produce     json
// @Param       year  path      string                        true  "Year"  example(2024)
// @Param       body  body      handlers.SelectPeriodRequest  true  "Month-variant"
// @Success     200   {object}  domain.Period
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse  "Period not found or in the trash"
// @Router      /years/{year}/periods/select [post]
func (h *Handlers) SelectPeriod(c *gin.Context) {
	var req SelectPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}
	p, err := h.periodSvc.EnsureSelectable(c.Request.Context(), c.Param("year"), strings.TrimSpace(req.Month))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	s, okS := sess(c)
	if !okS {
		return
	}
	s.SetActiveYear(p.Year)
	s.SetActiveMonth(p.Month)
	ok(c, http.StatusOK, p)
}

// DuplicatePeriod godoc
// @ID          duplicatePeriod
// @Summary     Duplicate a month
// @Description Creates the next numbered variant of the source's base month ("Enero" -> "Enero (2)"), copying metadata but no records. The copy becomes the active period.
// @Tags        Periods
// @Accept      json
// @Produce     json
// @Param       year  path      string                           true  "Year"  example(2024)
// @Param       body  body      handlers.DuplicatePeriodRequest  true  "Source month-variant"
// @Success     201   {object}  domain.Period
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse  "Source not found"
// @Failure     409   {object}  handlers.ErrorResponse  "Name collision, reload and retry"
// @Router      /years/{year}/periods/duplicate [post]
func (h *Handlers) DuplicatePeriod(c *gin.Context) {
	var req DuplicatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}
	p, err := h.periodSvc.Duplicate(c.Request.Context(), c.Param("year"), strings.TrimSpace(req.Source))
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	// The copy becomes the working period.
	if s := session.FromContext(c); s != nil {
		s.SetActiveYear(p.Year)
		s.SetActiveMonth(p.Month)
	}
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("period", p.Key().String()).Msg("period duplicated")
	ok(c, http.StatusCreated, p)
}

// DeletePeriod godoc
// @ID          deletePeriod
// @Summary     Move a period to the trash
// @Description Soft-deletes the period's live records and then the period row. Refused for the active period.
// @Tags        Periods
// @Produce     json
// @Param       year   path      string  true  "Year"           example(2024)
// @Param       month  path      string  true  "Month-variant"  example(Enero (2))
// @Success     200    {object}  handlers.TrashedResponse
// @Failure     409    {object}  handlers.ErrorResponse  "Period is active"
// @Router      /years/{year}/periods/{month} [delete]
func (h *Handlers) DeletePeriod(c *gin.Context) {
	n, err := h.trashSvc.DeletePeriod(c.Request.Context(), c.Param("year"), c.Param("month"), activePeriod(c))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, TrashedResponse{RecordsTrashed: n})
}

// ClearPeriod godoc
// @ID          clearPeriod
// @Summary     Trash a period's records
// @Description Soft-deletes every live record of the period and keeps the period row and its metadata. Refused for the active period.
// @Tags        Periods
// @Produce     json
// @Param       year   path      string  true  "Year"           example(2024)
// @Param       month  path      string  true  "Month-variant"  example(Febrero)
// @Success     200    {object}  handlers.TrashedResponse
// @Failure     409    {object}  handlers.ErrorResponse  "Period is active"
// @Router      /years/{year}/periods/{month}/clear [post]
func (h *Handlers) ClearPeriod(c *gin.Context) {
	n, err := h.trashSvc.ClearPeriodRecords(c.Request.Context(), c.Param("year"), c.Param("month"), activePeriod(c))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, TrashedResponse{RecordsTrashed: n})
}

// GetMetadata godoc
// @ID          getMetadata
// @Summary     Active period metadata
// @Tags        Periods
// @Produce     json
// @Success     200  {object}  domain.Period
// @Failure     412  {object}  handlers.ErrorResponse  "No active period"
// @Router      /period/metadata [get]
func (h *Handlers) GetMetadata(c *gin.Context) {
	active := activePeriod(c)
	if !active.Complete() {
		failService(c, services.ErrNoActivePeriod, ErrCodeInternal)
		return
	}
	p, err := h.periodSvc.Metadata(c.Request.Context(), active.Year, active.Month)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateMetadata godoc
// @ID          updateMetadata
// @Summary     Edit active period metadata
// @Tags        Periods
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.MetadataRequest  true  "Metadata"
// @Success     200   {object}  domain.Period
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     412   {object}  handlers.ErrorResponse  "No active period"
// @Router      /period/metadata [put]
func (h *Handlers) UpdateMetadata(c *gin.Context) {
	active := activePeriod(c)
	if !active.Complete() {
		failService(c, services.ErrNoActivePeriod, ErrCodeInternal)
		return
	}
	var req MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}
	p, err := h.periodSvc.UpdateMetadata(c.Request.Context(), active.Year, active.Month, services.Metadata{
		Responsible:  req.Responsible,
		Municipality: req.Municipality,
		Facility:     req.Facility,
	})
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}
