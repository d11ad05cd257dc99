package middleware

import (
	"context"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's key for record creation. A
// double-submitted form with the same key creates one record.
const HeaderIdempotencyKey = "Idempotency-Key"

// CtxKeyUserID is the gin context key holding the authenticated user id.
const CtxKeyUserID = "userID"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemMaxLen = 200
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the key accepted by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether the lookup found a completed request for the key.
func IsReplay(c *gin.Context) bool {
	return c.GetBool(ctxKeyIdemReplay)
}

// IdempotencyOptions configures IdempotencyValidator. Zero values select
// the defaults.
type IdempotencyOptions struct {
	MaxLen  int            // 200
	Pattern *regexp.Regexp // ^[A-Za-z0-9._~\-:]+$
	// Methods whose requests honour the header; others ignore it. POST only
	// by default, since record updates and deletes are idempotent already.
	Methods []string
	// Scope partitions keys. Defaults to the active period under
	// CtxKeyPeriod, so one key reused in another month creates a new record.
	Scope func(*gin.Context) string
	Now   func() time.Time
}

// IdempotencyLookup reports whether a still-valid result exists for
// (userID, scope, key) at now. Expiry is the lookup's business.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error)

// IdempotencyValidator validates Idempotency-Key and stashes it for the
// handler. A malformed key is answered 400 bad_idempotency_key. When lookup
// finds a prior result the request is flagged as a replay and skips the rate
// limiter; the handler serves the stored record itself. Lookups need a user
// and a scope; failures are logged and the request proceeds as new.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemMaxLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}
	methods := opts.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodPost}
	}
	scopeOf := opts.Scope
	if scopeOf == nil {
		scopeOf = func(c *gin.Context) string { return c.GetString(CtxKeyPeriod) }
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !slices.Contains(methods, c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			AbortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid, scope := c.GetString(CtxKeyUserID), scopeOf(c)
		if lookup != nil && uid != "" && scope != "" {
			found, err := lookup(c.Request.Context(), uid, scope, key, now().UTC())
			switch {
			case err != nil:
				lg := LoggerFrom(c)
				lg.Warn().Err(err).Str("scope", scope).Msg("idempotency lookup failed")
			case found:
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
