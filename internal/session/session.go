package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Session value keys.
const (
	keyActiveYear  = "active_year"
	keyActiveMonth = "active_month"
)

// Manager orchestrates cookie based sessions on top of a Store.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session holds per-request session data.
type Session struct {
	ID        string
	values    map[string]string
	userID    string
	isNew     bool
	dirty     bool
	destroyed bool
	// rotatedFrom is a previous id to drop from the store at commit.
	rotatedFrom string
}

type payload struct {
	Values map[string]string `json:"values"`
	UserID string            `json:"user_id"`
}

// NewManager constructs a Manager.
func NewManager(store Store, cookieName string, ttl time.Duration, secure bool) *Manager {
	if cookieName == "" {
		cookieName = "susceptibles_session"
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, cookieName: cookieName, ttl: ttl, secure: secure}
}

// CookieName returns the cookie identifier used for sessions.
func (m *Manager) CookieName() string { return m.cookieName }

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Load returns the session named by the request cookie, or a fresh one when
// the cookie is missing or its payload has expired. A stale cookie id is
// never reused.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return newSession(), nil
		}
		return nil, err
	}

	data, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return newSession(), nil
		}
		return nil, err
	}

	var stored payload
	if err := json.Unmarshal(data, &stored); err != nil {
		return newSession(), nil
	}
	s := &Session{ID: cookie.Value, values: stored.Values, userID: stored.UserID}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

// Commit persists the session and writes the cookie. A new session that
// never received data is not stored and gets no cookie.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s == nil {
		return nil
	}

	if s.destroyed {
		if s.ID != "" {
			if err := m.store.Delete(ctx, s.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if s.rotatedFrom != "" {
		if err := m.store.Delete(ctx, s.rotatedFrom); err != nil {
			return err
		}
		s.rotatedFrom = ""
	}
	if s.isNew && !s.dirty {
		return nil
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	data, err := json.Marshal(payload{Values: s.values, UserID: s.userID})
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, s.ID, data, m.ttl); err != nil {
		return err
	}
	s.dirty = false
	s.isNew = false

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

func newSession() *Session {
	return &Session{values: map[string]string{}, isNew: true}
}

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool { return s.isNew }

// Set stores a key-value pair.
func (s *Session) Set(key, value string) {
	s.values[key] = value
	s.dirty = true
}

// Get retrieves a value.
func (s *Session) Get(key string) string { return s.values[key] }

// Delete removes a value.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// SetUser associates the session with a user. A login always rotates to a
// fresh session id.
func (s *Session) SetUser(id string) {
	if !s.isNew && s.ID != "" {
		s.rotatedFrom = s.ID
	}
	s.userID = id
	s.ID = ""
	s.isNew = true
	s.dirty = true
}

// User returns the logged-in user, or "".
func (s *Session) User() string { return s.userID }

// Destroy marks the session for deletion at commit.
func (s *Session) Destroy() { s.destroyed = true }

// Destroyed reports whether Destroy was called.
func (s *Session) Destroyed() bool { return s.destroyed }

// ActivePeriod returns the selected year and month-variant; either may be "".
func (s *Session) ActivePeriod() (year, month string) {
	return s.Get(keyActiveYear), s.Get(keyActiveMonth)
}

// SetActiveYear selects year and clears the month selection when the year
// changes.
func (s *Session) SetActiveYear(year string) {
	if s.Get(keyActiveYear) != year {
		s.Delete(keyActiveMonth)
	}
	s.Set(keyActiveYear, year)
}

// SetActiveMonth selects a month-variant of the active year.
func (s *Session) SetActiveMonth(month string) { s.Set(keyActiveMonth, month) }

// ClearActiveMonth drops the month selection and keeps the year.
func (s *Session) ClearActiveMonth() { s.Delete(keyActiveMonth) }
