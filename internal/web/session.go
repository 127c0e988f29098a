package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	// SessionCookieName carries the signed visitor id.
	SessionCookieName = "board_session"

	// DefaultIdleTimeout is how long an untouched visitor session is kept.
	DefaultIdleTimeout = 30 * time.Minute
)

// ControllerFactory builds the controller that drives one visitor's view.
type ControllerFactory func(view *Visitor) Dispatcher

type visitorSession struct {
	visitor    *Visitor
	dispatcher Dispatcher
	lastSeen   time.Time
}

// Sessions maps signed session cookies to per-visitor board state.
type Sessions struct {
	page          *Page
	newController ControllerFactory
	codec         *securecookie.SecureCookie
	secure        bool
	idleTimeout   time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*visitorSession
}

// NewSessions creates the session store. An empty hashKey is replaced by a
// random one, which invalidates sessions on restart.
func NewSessions(page *Page, newController ControllerFactory, hashKey []byte, secure bool) *Sessions {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	return &Sessions{
		page:          page,
		newController: newController,
		codec:         securecookie.New(hashKey, nil),
		secure:        secure,
		idleTimeout:   DefaultIdleTimeout,
		now:           time.Now,
		sessions:      make(map[string]*visitorSession),
	}
}

// lookup returns the live session of r, or nil.
func (s *Sessions) lookup(r *http.Request) *visitorSession {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	var id string
	if err := s.codec.Decode(SessionCookieName, cookie.Value, &id); err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	vs, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.expired(vs) {
		delete(s.sessions, id)
		return nil
	}
	vs.lastSeen = s.now()
	return vs
}

// obtain returns the session of r, starting a new one and setting its cookie
// when r has none.
func (s *Sessions) obtain(w http.ResponseWriter, r *http.Request) (*visitorSession, error) {
	if vs := s.lookup(r); vs != nil {
		return vs, nil
	}

	id := uuid.NewString()
	value, err := s.codec.Encode(SessionCookieName, id)
	if err != nil {
		return nil, fmt.Errorf("encode session cookie: %w", err)
	}

	visitor := NewVisitor(s.page)
	vs := &visitorSession{
		visitor:    visitor,
		dispatcher: s.newController(visitor),
		lastSeen:   s.now(),
	}

	s.mu.Lock()
	s.sweep()
	s.sessions[id] = vs
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return vs, nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.sessions)
}

// sweep drops idle sessions. Callers hold s.mu.
func (s *Sessions) sweep() {
	for id, vs := range s.sessions {
		if s.expired(vs) {
			delete(s.sessions, id)
		}
	}
}

func (s *Sessions) expired(vs *visitorSession) bool {
	return s.now().Sub(vs.lastSeen) > s.idleTimeout
}
