package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type lookupCall struct {
	userID, scope, key string
	now                time.Time
}

// idemRouter mounts the validator behind a fake RequireUser that sets the
// user and active period, and records what the handler saw.
func idemRouter(t *testing.T, opts IdempotencyOptions, lookup IdempotencyLookup, user, period string) (*gin.Engine, *struct {
	key            string
	replay, bypass bool
}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	seen := &struct {
		key            string
		replay, bypass bool
	}{}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != "" {
			c.Set(CtxKeyUserID, user)
		}
		if period != "" {
			c.Set(CtxKeyPeriod, period)
		}
		c.Next()
	})
	r.Use(IdempotencyValidator(opts, lookup))
	record := func(c *gin.Context) {
		seen.key, _ = GetIdempotencyKey(c)
		seen.replay, seen.bypass = IsReplay(c), IsRateBypass(c)
		c.Status(http.StatusCreated)
	}
	r.POST("/api/v1/records", record)
	r.PUT("/api/v1/records/:id", record)
	return r, seen
}

func sendWithKey(r http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyValidator_ScopesByUserAndActivePeriod(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("ART", -3*3600))
	var calls []lookupCall
	lookup := func(_ context.Context, userID, scope, key string, now time.Time) (bool, error) {
		calls = append(calls, lookupCall{userID, scope, key, now})
		return key == "form-7", nil
	}
	r, seen := idemRouter(t, IdempotencyOptions{Now: func() time.Time { return fixed }}, lookup, "admin", "2024/Enero")

	if w := sendWithKey(r, http.MethodPost, "/api/v1/records", "form-6"); w.Code != http.StatusCreated {
		t.Fatalf("miss = %d", w.Code)
	}
	if seen.key != "form-6" || seen.replay || seen.bypass {
		t.Fatalf("miss should only stash the key: %+v", seen)
	}

	sendWithKey(r, http.MethodPost, "/api/v1/records", "form-7")
	if !seen.replay || !seen.bypass {
		t.Fatalf("hit should flag replay and rate bypass: %+v", seen)
	}

	want := lookupCall{"admin", "2024/Enero", "form-7", fixed.UTC()}
	if len(calls) != 2 || calls[1] != want {
		t.Fatalf("lookup calls = %+v; want last %+v", calls, want)
	}
}

func TestIdempotencyValidator_IgnoredWithoutHeaderOrOnOtherMethods(t *testing.T) {
	called := 0
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		called++
		return true, nil
	}
	r, seen := idemRouter(t, IdempotencyOptions{}, lookup, "admin", "2024/Enero")

	sendWithKey(r, http.MethodPost, "/api/v1/records", "")
	if seen.key != "" || called != 0 {
		t.Fatalf("no header: key=%q lookups=%d", seen.key, called)
	}

	// Updates are idempotent by nature; even a malformed key is not checked.
	if w := sendWithKey(r, http.MethodPut, "/api/v1/records/3", "bad key!"); w.Code != http.StatusCreated {
		t.Fatalf("PUT = %d", w.Code)
	}
	if seen.key != "" || called != 0 {
		t.Fatalf("PUT should bypass the validator: key=%q lookups=%d", seen.key, called)
	}

	r, seen = idemRouter(t, IdempotencyOptions{Methods: []string{http.MethodPut}}, lookup, "admin", "2024/Enero")
	sendWithKey(r, http.MethodPut, "/api/v1/records/3", "k1")
	if seen.key != "k1" || !seen.replay {
		t.Fatalf("configured method should be validated: %+v", seen)
	}
}

func TestIdempotencyValidator_RejectsMalformedKeys(t *testing.T) {
	cases := []struct {
		name string
		opts IdempotencyOptions
		key  string
	}{
		{"too long", IdempotencyOptions{MaxLen: 5}, "abcdef"},
		{"default pattern", IdempotencyOptions{}, "ficha enero"},
		{"custom pattern", IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, "abc123"},
		{"default max length", IdempotencyOptions{}, strings.Repeat("k", 201)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, seen := idemRouter(t, tc.opts, nil, "admin", "2024/Enero")
			w := sendWithKey(r, http.MethodPost, "/api/v1/records", tc.key)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d; want 400", w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["code"] != "bad_idempotency_key" || seen.key != "" {
				t.Fatalf("unexpected body %v, handler key %q", body, seen.key)
			}
		})
	}

	r, seen := idemRouter(t, IdempotencyOptions{}, nil, "admin", "2024/Enero")
	sendWithKey(r, http.MethodPost, "/api/v1/records", "2024-01_ficha~3:a.b")
	if seen.key != "2024-01_ficha~3:a.b" {
		t.Fatalf("valid key not stashed: %q", seen.key)
	}
}

func TestIdempotencyValidator_SkipsLookupWithoutUserOrPeriod(t *testing.T) {
	called := 0
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		called++
		return true, nil
	}

	for _, tc := range []struct{ user, period string }{{"", "2024/Enero"}, {"admin", ""}} {
		r, seen := idemRouter(t, IdempotencyOptions{}, lookup, tc.user, tc.period)
		sendWithKey(r, http.MethodPost, "/api/v1/records", "k1")
		if seen.key != "k1" || seen.replay {
			t.Fatalf("user=%q period=%q: %+v", tc.user, tc.period, seen)
		}
	}
	if called != 0 {
		t.Fatalf("lookup called %d times", called)
	}
}

func TestIdempotencyValidator_LookupErrorProceedsAsNew(t *testing.T) {
	buf := captureLogger(t)
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		return true, errors.New("database is locked")
	}
	r, seen := idemRouter(t, IdempotencyOptions{}, lookup, "admin", "2024/Enero")

	if w := sendWithKey(r, http.MethodPost, "/api/v1/records", "k1"); w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if seen.replay || seen.bypass {
		t.Fatalf("a failed lookup is not a replay: %+v", seen)
	}
	if !bytes.Contains(buf.Bytes(), []byte("idempotency lookup failed")) {
		t.Fatalf("expected warning, got %s", buf.String())
	}
}

func TestIdempotencyHelpers_TypeSafety(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if k, ok := GetIdempotencyKey(c); k != "" || ok || IsReplay(c) {
		t.Fatalf("unset context should report nothing")
	}
	c.Set(ctxKeyIdemKey, 123)
	c.Set(ctxKeyIdemReplay, "yes")
	if _, ok := GetIdempotencyKey(c); ok || IsReplay(c) {
		t.Fatalf("wrong types must read as absent")
	}
}
