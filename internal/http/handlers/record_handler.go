// Record HTTP handlers.
//
// This file exposes REST endpoints for the records of the active period:
//   - GET    /records        (paginated, q search, totals, ETag support)
//   - POST   /records        (create; Idempotency-Key aware)
//   - GET    /records/{id}
//   - PUT    /records/{id}
//   - DELETE /records/{id}   (move to the trash)
//
// Every endpoint works on the session's active period and answers 412
// no_active_period when no month-variant is selected.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// creation exists for (user, period, key), the handler returns that record
// and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/http/middleware"
	"github.com/clinica/susceptibles/internal/services"
)

//
// DTOs
//

// RecordRequest is the JSON payload for creating or updating a record.
type RecordRequest struct {
	ChildName      string `json:"child_name" binding:"required,max=200" example:"Ana Pérez"`
	BirthDate      string `json:"birth_date" binding:"max=32" example:"2023-05-14"`
	MotherName     string `json:"mother_name" binding:"max=200" example:"Lucía Pérez"`
	Community      string `json:"community" binding:"max=200" example:"El Rosario"`
	PendingVaccine string `json:"pending_vaccine" binding:"max=200" example:"SRP"`
}

func (r RecordRequest) input() services.RecordInput {
	return services.RecordInput{
		ChildName:      r.ChildName,
		BirthDate:      r.BirthDate,
		MotherName:     r.MotherName,
		Community:      r.Community,
		PendingVaccine: r.PendingVaccine,
	}
}

// ListRecordsResponse contains a page of records, the period totals and
// pagination metadata.
type ListRecordsResponse struct {
	Year       string          `json:"year" example:"2024"`
	Month      string          `json:"month" example:"Enero"`
	Records    []domain.Record `json:"records"`
	Totals     services.Totals `json:"totals"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// requireActive answers 412 and returns false when no period is selected.
func requireActive(c *gin.Context) (services.ActivePeriod, bool) {
	active := activePeriod(c)
	if !active.Complete() {
		failService(c, services.ErrNoActivePeriod, ErrCodeInternal)
		return active, false
	}
	return active, true
}

// recordID parses the {id} path parameter.
func recordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

//
// Handlers
//

// ListRecords godoc
// @ID          listRecords
// @Summary     List records of the active period (paginated)
// @Description Returns live records newest first, optionally filtered by child name or community, with the period totals. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Records
// @Produce     json
// @Param       q              query   string  false  "Search child name or community"
// @Param       page           query   int     false  "Page number (1-based)"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Page size (max 100)"       minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false  "Weak ETag from a previous response"
// @Success     200  {object}  handlers.ListRecordsResponse
// @Success     304  "Not Modified"
// @Failure     412  {object}  handlers.ErrorResponse  "No active period"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /records [get]
func (h *Handlers) ListRecords(c *gin.Context) {
	ctx := c.Request.Context()
	active, okA := requireActive(c)
	if !okA {
		return
	}
	page := clampPagination(c)
	q := c.Query("q")

	// ETag pre-check (best effort). The query string is part of the tag so
	// different pages and searches never share one.
	if count, maxTS, err := h.recordSvc.Stats(ctx, active); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"records:%s:%d:%d:%d:%d:%s"`,
			active.Key(), count, ts, page.Number, page.Size, strconv.Quote(q))
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.recordSvc.ListPage(ctx, active, q, page.Number, page.Size)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	totals, err := h.recordSvc.Totals(ctx, active)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListRecordsResponse{
		Year:       active.Year,
		Month:      active.Month,
		Records:    items,
		Totals:     totals,
		Pagination: newPagination(page, total),
	})
}

// CreateRecord godoc
// @ID          createRecord
// @Summary     Create a record in the active period
// @Tags        Records
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                  false  "Retry-safe key, scoped to user and period"
// @Param       body             body    handlers.RecordRequest  true   "Record"
// @Success     201  {object}  domain.Record
// @Success     200  {object}  domain.Record  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     412  {object}  handlers.ErrorResponse  "No active period"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /records [post]
func (h *Handlers) CreateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	active, okA := requireActive(c)
	if !okA {
		return
	}
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}

	currentUser := userID(c)
	periodKey := active.Key().String()

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.idem != nil {
		if id, found := h.idem.Lookup(ctx, currentUser, periodKey, idemKey, time.Now().UTC()); found {
			if prev, err := h.recordSvc.Get(ctx, active, id); err == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	r, err := h.recordSvc.Create(ctx, active, req.input())
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.idem != nil {
		h.idem.Remember(ctx, currentUser, periodKey, idemKey, r.ID, http.StatusCreated)
	}
	ok(c, http.StatusCreated, r)
}

// GetRecord godoc
// @ID          getRecord
// @Summary     Fetch a record of the active period
// @Tags        Records
// @Produce     json
// @Param       id   path      int  true  "Record id"
// @Success     200  {object}  domain.Record
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     412  {object}  handlers.ErrorResponse  "No active period"
// @Router      /records/{id} [get]
func (h *Handlers) GetRecord(c *gin.Context) {
	active, okA := requireActive(c)
	if !okA {
		return
	}
	id, okID := recordID(c)
	if !okID {
		return
	}
	r, err := h.recordSvc.Get(c.Request.Context(), active, id)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, r)
}

// UpdateRecord godoc
// @ID          updateRecord
// @Summary     Update a record of the active period
// @Tags        Records
// @Accept      json
// @Produce     json
// @Param       id    path      int                     true  "Record id"
// @Param       body  body      handlers.RecordRequest  true  "Record"
// @Success     200   {object}  domain.Record
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse  "Not found"
// @Failure     412   {object}  handlers.ErrorResponse  "No active period"
// @Router      /records/{id} [put]
func (h *Handlers) UpdateRecord(c *gin.Context) {
	active, okA := requireActive(c)
	if !okA {
		return
	}
	id, okID := recordID(c)
	if !okID {
		return
	}
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err, "invalid JSON body"))
		return
	}
	r, err := h.recordSvc.Update(c.Request.Context(), active, id, req.input())
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, r)
}

// DeleteRecord godoc
// @ID          deleteRecord
// @Summary     Move a record to the trash
// @Description Soft-deletes a live record of the active period. Deleting an already trashed record is a no-op.
// @Tags        Records
// @Param       id   path  int  true  "Record id"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     412  {object}  handlers.ErrorResponse  "No active period"
// @Router      /records/{id} [delete]
func (h *Handlers) DeleteRecord(c *gin.Context) {
	active, okA := requireActive(c)
	if !okA {
		return
	}
	id, okID := recordID(c)
	if !okID {
		return
	}
	n, err := h.trashSvc.DeleteRecord(c.Request.Context(), id, active.Year, active.Month)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if n > 0 {
		lg := middleware.LoggerFrom(c)
		lg.Info().Uint("record_id", id).Str("period", active.Key().String()).Msg("record trashed")
	}
	noContent(c)
}
