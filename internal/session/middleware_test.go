package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestMiddleware_CommitsBeforeBodyIsWritten(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(NewMemoryStore(), "sid", time.Hour, false)

	r := gin.New()
	r.Use(Middleware(m))
	r.POST("/login", func(c *gin.Context) {
		s := FromContext(c)
		s.SetUser("admin")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, FromContext(c).User())
	})
	r.POST("/logout", func(c *gin.Context) {
		FromContext(c).Destroy()
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, rec, "sid")
	if cookie == nil {
		t.Fatalf("login response carries no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "admin" {
		t.Fatalf("user = %q, want admin", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if c := sessionCookie(t, rec, "sid"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("logout did not expire the cookie: %+v", c)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "" {
		t.Fatalf("session survived logout: %q", rec.Body.String())
	}
}

func TestFromContext_NoMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if FromContext(c) != nil {
		t.Fatalf("expected nil session")
	}
}

func TestMiddleware_StoreOutageLooksLoggedOut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, mr := newRedisManager(t)

	r := gin.New()
	r.Use(Middleware(m))
	r.POST("/login", func(c *gin.Context) {
		FromContext(c).SetUser("admin")
		c.Status(http.StatusOK)
	})
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, FromContext(c).User())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, rec, "test_session")
	if cookie == nil {
		t.Fatalf("login response carries no session cookie")
	}

	mr.Close()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("while redis is down the request should run with a fresh session, got %d %q", rec.Code, rec.Body.String())
	}
}
