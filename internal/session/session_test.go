package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewManager(NewRedisStore(client, ""), "test_session", time.Hour, false), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			last = c
		}
	}
	return last
}

func TestManager_NewSessionWithoutDataIsNotStored(t *testing.T) {
	m, mr := newRedisManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := m.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.IsNew() {
		t.Fatalf("expected new session")
	}
	rec := httptest.NewRecorder()
	if err := m.Commit(context.Background(), rec, s); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if c := sessionCookie(t, rec, "test_session"); c != nil {
		t.Fatalf("unexpected cookie for empty session: %v", c)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("unexpected redis keys: %v", keys)
	}
}

func TestManager_RoundTripActivePeriod(t *testing.T) {
	m, mr := newRedisManager(t)
	ctx := context.Background()

	s, _ := m.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetUser("admin")
	s.SetActiveYear("2024")
	s.SetActiveMonth("Enero (2)")

	rec := httptest.NewRecorder()
	if err := m.Commit(ctx, rec, s); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	cookie := sessionCookie(t, rec, "test_session")
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("missing session cookie: %+v", cookie)
	}
	if !mr.Exists("session:" + cookie.Value) {
		t.Fatalf("payload not stored under session:%s", cookie.Value)
	}
	if ttl := mr.TTL("session:" + cookie.Value); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s2, err := m.Load(ctx, req)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	y, mo := s2.ActivePeriod()
	if s2.User() != "admin" || y != "2024" || mo != "Enero (2)" || s2.IsNew() {
		t.Fatalf("unexpected session: user=%q year=%q month=%q new=%v", s2.User(), y, mo, s2.IsNew())
	}
}

func TestManager_ExpiredPayloadStartsFresh(t *testing.T) {
	m, mr := newRedisManager(t)
	ctx := context.Background()

	s, _ := m.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetUser("admin")
	rec := httptest.NewRecorder()
	_ = m.Commit(ctx, rec, s)
	cookie := sessionCookie(t, rec, "test_session")

	mr.FastForward(2 * time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s2, err := m.Load(ctx, req)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s2.IsNew() || s2.User() != "" || s2.ID == cookie.Value {
		t.Fatalf("expired session reused: %+v", s2)
	}
}

func TestManager_DestroyClearsCookieAndStore(t *testing.T) {
	m, mr := newRedisManager(t)
	ctx := context.Background()

	s, _ := m.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetUser("admin")
	rec := httptest.NewRecorder()
	_ = m.Commit(ctx, rec, s)
	cookie := sessionCookie(t, rec, "test_session")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s2, _ := m.Load(ctx, req)
	s2.Destroy()
	rec2 := httptest.NewRecorder()
	if err := m.Commit(ctx, rec2, s2); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if mr.Exists("session:" + cookie.Value) {
		t.Fatalf("destroyed session still stored")
	}
	if c := sessionCookie(t, rec2, "test_session"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", c)
	}
}

func TestManager_LoginRotatesID(t *testing.T) {
	m, mr := newRedisManager(t)
	ctx := context.Background()

	s, _ := m.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetActiveYear("2024")
	rec := httptest.NewRecorder()
	_ = m.Commit(ctx, rec, s)
	before := sessionCookie(t, rec, "test_session")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(before)
	s2, _ := m.Load(ctx, req)
	s2.SetUser("admin")
	rec2 := httptest.NewRecorder()
	_ = m.Commit(ctx, rec2, s2)
	after := sessionCookie(t, rec2, "test_session")

	if after == nil || after.Value == before.Value {
		t.Fatalf("session id not rotated on login")
	}
	if mr.Exists("session:" + before.Value) {
		t.Fatalf("old session id still stored")
	}
	if y, _ := s2.ActivePeriod(); y != "2024" {
		t.Fatalf("values lost on rotation: year=%q", y)
	}
}

func TestSession_SetActiveYearClearsMonthOnChange(t *testing.T) {
	s := newSession()
	s.SetActiveYear("2024")
	s.SetActiveMonth("Enero")
	s.SetActiveYear("2024")
	if _, m := s.ActivePeriod(); m != "Enero" {
		t.Fatalf("same year must keep month, got %q", m)
	}
	s.SetActiveYear("2025")
	if y, m := s.ActivePeriod(); y != "2025" || m != "" {
		t.Fatalf("year change must clear month: %q %q", y, m)
	}
	s.SetActiveMonth("Mayo")
	s.ClearActiveMonth()
	if _, m := s.ActivePeriod(); m != "" {
		t.Fatalf("ClearActiveMonth left %q", m)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	st := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	ctx := context.Background()

	if err := st.Set(ctx, "a", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if b, err := st.Get(ctx, "a"); err != nil || string(b) != "x" {
		t.Fatalf("Get = (%q, %v)", b, err)
	}
	now = now.Add(time.Minute)
	if _, err := st.Get(ctx, "a"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expired entry not dropped")
	}
	_ = st.Set(ctx, "b", []byte("y"), 0)
	_ = st.Delete(ctx, "b")
	if _, err := st.Get(ctx, "b"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after delete, got %v", err)
	}
}
