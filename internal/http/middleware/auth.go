package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/session"
)

// RequireUser answers 401 unless the session carries a logged-in user. It
// exposes the user under CtxKeyUserID (loggers, rate limiter, idempotency
// lookup) and the session's active period under CtxKeyPeriod. It must run
// after session.Middleware.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil || s.User() == "" {
			AbortJSON(c, http.StatusUnauthorized, "unauthorized", "login required")
			return
		}
		c.Set(CtxKeyUserID, s.User())

		y, m := s.ActivePeriod()
		if k := (domain.PeriodKey{Year: y, Month: m}); !k.IsZero() {
			c.Set(CtxKeyPeriod, k.String())
		}
		c.Next()
	}
}
