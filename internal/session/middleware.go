package session

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ctxKey is the gin context key under which the Session is stored.
const ctxKey = "session"

// commitWriter commits the session right before the first byte of the
// response goes out, while headers can still carry Set-Cookie.
type commitWriter struct {
	gin.ResponseWriter
	commit func()
	done   bool
}

func (w *commitWriter) before() {
	if !w.done {
		w.done = true
		w.commit()
	}
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) WriteString(s string) (int, error) {
	w.before()
	return w.ResponseWriter.WriteString(s)
}

func (w *commitWriter) WriteHeaderNow() {
	w.before()
	w.ResponseWriter.WriteHeaderNow()
}

// Middleware loads the request's session, exposes it through FromContext
// and commits it before the response is written. A store failure yields a
// fresh, empty session rather than failing the request.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		s, err := m.Load(ctx, c.Request)
		if err != nil {
			log.Warn().Err(err).Msg("session load failed")
			s = newSession()
		}
		c.Set(ctxKey, s)

		cw := &commitWriter{ResponseWriter: c.Writer}
		cw.commit = func() {
			if err := m.Commit(ctx, cw.ResponseWriter, s); err != nil {
				log.Error().Err(err).Msg("session commit failed")
			}
		}
		c.Writer = cw

		c.Next()
		cw.before()
	}
}

// FromContext returns the request's Session, or nil when Middleware did not
// run.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(ctxKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
