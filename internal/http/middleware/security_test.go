package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securedRouter(opt SecurityOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(opt))
	r.GET("/api/v1/records", func(c *gin.Context) {
		c.Header("ETag", `W/"records:2024/Enero:3:0:1:20:\"\""`)
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/session", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/authors", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r http.Handler, req *http.Request) http.Header {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serve(securedRouter(SecurityOptions{}), httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Pragma", "Strict-Transport-Security"} {
		if h.Get(k) != "" {
			t.Fatalf("%s should be absent by default: %#v", k, h)
		}
	}
}

func TestSecurityHeaders_CachePostureByPath(t *testing.T) {
	r := securedRouter(SecurityOptions{
		Cache:        CachePrivateRevalidate,
		NoStorePaths: []string{"/api/v1/auth", "/api/v1/session/"},
		EnablePolicy: true,
	})

	h := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))
	if h.Get("Cache-Control") != "private, no-cache" || h.Get("Pragma") != "" || h.Get("ETag") == "" {
		t.Fatalf("record pages should revalidate with their ETag: %#v", h)
	}
	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" || h.Get("Permissions-Policy") == "" {
		t.Fatalf("missing policy headers: %#v", h)
	}

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/session", nil),
	} {
		h := serve(r, req)
		if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
			t.Fatalf("%s should be no-store: %#v", req.URL.Path, h)
		}
	}

	if got := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/authors", nil)).Get("Cache-Control"); got != "private, no-cache" {
		t.Fatalf("prefix must match whole segments, got %q", got)
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	r := securedRouter(SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour})

	if got := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)).Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("plain HTTP must not get HSTS, got %q", got)
	}

	tlsReq := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if got := serve(r, tlsReq).Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains; preload" {
		t.Fatalf("HSTS over TLS = %q", got)
	}

	proxied := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	proxied.Header.Set("X-Forwarded-Proto", "HTTPS")
	if got := serve(r, proxied).Get("Strict-Transport-Security"); got == "" {
		t.Fatalf("expected HSTS behind a TLS-terminating proxy")
	}
}

func TestHSTSValue_Default(t *testing.T) {
	if got := hstsValue(0); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("default HSTS = %q", got)
	}
}

func TestHasAnyPrefix(t *testing.T) {
	prefixes := []string{"", "/api/v1/auth/"}
	cases := map[string]bool{
		"/api/v1/auth":        true,
		"/api/v1/auth/logout": true,
		"/api/v1/authors":     false,
		"/":                   false,
	}
	for path, want := range cases {
		if got := hasAnyPrefix(path, prefixes); got != want {
			t.Fatalf("hasAnyPrefix(%q) = %v; want %v", path, got, want)
		}
	}
}
