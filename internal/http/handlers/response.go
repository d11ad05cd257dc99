// Package handlers implements the susceptibles REST API: login and session,
// years and monthly periods, vaccination records, and the trash.
//
// Every failure is answered with the same envelope:
//
//	HTTP/1.1 412 Precondition Failed
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "no_active_period",
//	  "message": "select a year and month first"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/http/middleware"
)

// ErrorResponse documents the error envelope for Swagger.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable machine-readable code
	Code string `json:"code" example:"guard_violation"`
	// Safe to show to the user
	Message string `json:"message" example:"cannot delete the active period"`
}

// fail writes the envelope and stops the chain. 5xx answers are logged with
// the request-scoped logger, together with any cause attached by c.Error,
// since the client only sees a generic message.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if last := c.Errors.Last(); last != nil {
			ev = ev.Err(last.Err)
		}
		ev.Msg("api error")
	}
	middleware.AbortJSON(c, status, code, msg)
}

// Fail lets the router answer in the same envelope (NoRoute, NoMethod).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
