// Package middleware contains the Gin middleware of the susceptibles API.
//
// This file holds the request plumbing every other middleware relies on:
//
//   - RequestID() reuses or mints the X-Request-ID correlation id.
//   - Logger() attaches a request-scoped zerolog.Logger and writes one access
//     log line per request, tagged with the user, the active period and the
//     error code of the envelope (if any).
//   - Recovery() turns panics into the JSON error envelope.
//   - AbortJSON() writes that envelope and records its code for the access
//     log and the http_errors_total metric.
//
// Order: RequestID, Logger, RedactingLogger (debug only), Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// CtxKeyErrorCode holds the code of the error envelope sent for the
	// request.
	CtxKeyErrorCode = "errorCode"
	// CtxKeyPeriod holds the "<year>/<month-variant>" the request ran
	// against, set by RequireUser.
	CtxKeyPeriod = "period"

	maxQueryLogLength = 2048
)

// RequestID reuses an incoming X-Request-ID or generates a UUIDv4, stores it
// in the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes a structured access log line per request and exposes a
// request-scoped logger through LoggerFrom.
//
// Levels follow the outcome. Server errors and gin errors log at error.
// 401, 404, 409 and 412 are the everyday answers of this API (logged out,
// row in the trash, guarded delete, no period selected) and log at info.
// Any other 4xx logs at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		l := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(maskQueryParams(c.Request.URL.RawQuery, defaultMaskedQuery), maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.With().
			Str("user_id", c.GetString(CtxKeyUserID)).
			Str("period", c.GetString(CtxKeyPeriod)).
			Str("code", c.GetString(CtxKeyErrorCode)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= http.StatusInternalServerError:
			ev.Error().Msg("request")
		case expectedClientStatus(status):
			ev.Info().Msg("request")
		case status >= http.StatusBadRequest:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

func expectedClientStatus(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict, http.StatusPreconditionFailed:
		return true
	}
	return false
}

// AbortJSON aborts the request with the error envelope
// {request_id, code, message} and records code under CtxKeyErrorCode.
func AbortJSON(c *gin.Context, status int, code, msg string) {
	c.Set(CtxKeyErrorCode, code)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}

// Recovery logs a panic with its stack and answers 500 internal_error when
// nothing has been written yet.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", asString(rid)).
				Str("period", c.GetString(CtxKeyPeriod)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, asString(rid))
			AbortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// Logger() did not run.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// routePath is the registered route, or the raw path when none matched.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate caps s at max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
