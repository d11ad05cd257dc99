package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CachePolicy selects the Cache-Control posture of SecurityHeaders.
type CachePolicy int

const (
	// CacheUnset leaves Cache-Control to the handlers.
	CacheUnset CachePolicy = iota
	// CacheNoStore forbids storing responses anywhere.
	CacheNoStore
	// CachePrivateRevalidate lets the browser keep a private copy of a
	// record page that must be revalidated with If-None-Match on every use.
	CachePrivateRevalidate
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests only.
	EnableHSTS bool
	HSTSMaxAge time.Duration // 180 days when zero
	// Cache is the default posture for every response.
	Cache CachePolicy
	// NoStorePaths are path prefixes answered with no-store whatever Cache
	// says: login and session responses carry the active period and must
	// not be replayed from a browser cache after logout.
	NoStorePaths []string
	// EnablePolicy sends Permissions-Policy and
	// X-Permitted-Cross-Domain-Policies.
	EnablePolicy bool
}

// SecurityHeaders hardens JSON responses: nosniff, DENY framing, no
// referrer, optional feature policy, the cache posture and HSTS.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	hsts := hstsValue(opt.HSTSMaxAge)

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		policy := opt.Cache
		if hasAnyPrefix(c.Request.URL.Path, opt.NoStorePaths) {
			policy = CacheNoStore
		}
		switch policy {
		case CacheNoStore:
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		case CachePrivateRevalidate:
			h.Set("Cache-Control", "private, no-cache")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

func hstsValue(maxAge time.Duration) string {
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	return "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"
}

// hasAnyPrefix matches whole path segments: /api/v1/auth covers
// /api/v1/auth/login but not /api/v1/authors.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// isHTTPS reports TLS on the connection or X-Forwarded-Proto: https from the
// reverse proxy.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
