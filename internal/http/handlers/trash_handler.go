// Trash ("papelera") HTTP handlers.
//
//   - GET  /trash                        (recovery tree)
//   - POST /trash/recover/{scope}/{key}  (restore a record, period or year)
//
// Period keys contain a slash ("2024/Enero (2)"), so the key is a catch-all
// path segment.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/http/middleware"
)

// RecoverResponse reports how many rows left the trash.
type RecoverResponse struct {
	Scope    string `json:"scope" example:"period"`
	Key      string `json:"key" example:"2024/Enero (2)"`
	Restored int64  `json:"restored" example:"15"`
}

// GetTrash godoc
// @ID          getTrash
// @Summary     Recovery tree
// @Description Everything in the trash grouped year -> month-variant -> {metadata, records}. Years newest first, months in canonical order, each leaf with deleted_at and expires_at.
// @Tags        Trash
// @Produce     json
// @Success     200  {object}  services.RecoveryTree
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /trash [get]
func (h *Handlers) GetTrash(c *gin.Context) {
	tree, err := h.trashSvc.BuildRecoveryTree(c.Request.Context())
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, tree)
}

// Recover godoc
// @ID          recoverTrash
// @Summary     Restore from the trash
// @Description Scope is record (key = id), period (key = "<year>/<month-variant>", or the legacy "<year><month>") or year (key = year).
// @Tags        Trash
// @Produce     json
// @Param       scope  path      string  true  "record | period | year"
// @Param       key    path      string  true  "Recovery key"
// @Success     200    {object}  handlers.RecoverResponse
// @Failure     400    {object}  handlers.ErrorResponse  "Unknown scope or malformed key"
// @Failure     500    {object}  handlers.ErrorResponse  "Internal error"
// @Router      /trash/recover/{scope}/{key} [post]
func (h *Handlers) Recover(c *gin.Context) {
	scope := c.Param("scope")
	key := strings.TrimPrefix(c.Param("key"), "/")

	n, err := h.trashSvc.Recover(c.Request.Context(), scope, key)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("scope", scope).Str("key", key).Int64("restored", n).Msg("recovered from trash")
	ok(c, http.StatusOK, RecoverResponse{Scope: scope, Key: key, Restored: n})
}
