package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/domain"
)

type sessionData struct {
	draft      *domain.Draft
	pages      []string
	flashes    []string
	lastActive time.Time
}

// SessionStore holds per-session workflow state: the current draft
// summary, the encoded page sequence of the last upload, and pending
// flash messages. Expiry is sliding: every read or write of a live
// session renews its lifetime; a session idle past the TTL reads as
// absent and is dropped.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionData
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}
	return &SessionStore{
		sessions: map[string]*sessionData{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewSession mints a fresh session identifier.
func (s *SessionStore) NewSession() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &sessionData{lastActive: s.now()}
	return id
}

// Valid reports whether the identifier names a live session, renewing
// its lifetime if so.
func (s *SessionStore) Valid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(id) != nil
}

// SetDraft overwrites the session's draft wholesale. The prior value is
// discarded irretrievably.
func (s *SessionStore) SetDraft(id string, draft domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ensure(id)
	data.draft = &draft
}

// Draft returns the current draft, or ErrNoDraft when the session has
// none, expired, or was never created.
func (s *SessionStore) Draft(id string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.live(id)
	if data == nil || data.draft == nil {
		return domain.Draft{}, domain.ErrNoDraft
	}
	return *data.draft, nil
}

// SetPages replaces the session's encoded page sequence. Assignment,
// never append: a second upload fully supersedes the first.
func (s *SessionStore) SetPages(id string, pages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ensure(id)
	data.pages = pages
}

// Pages returns the encoded page sequence of the session's last upload.
func (s *SessionStore) Pages(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.live(id)
	if data == nil || len(data.pages) == 0 {
		return nil, domain.ErrNoPages
	}
	return data.pages, nil
}

// AddFlash queues a one-shot notice for the next rendered page.
func (s *SessionStore) AddFlash(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ensure(id)
	data.flashes = append(data.flashes, message)
}

// PopFlashes returns and clears the queued notices.
func (s *SessionStore) PopFlashes(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.live(id)
	if data == nil || len(data.flashes) == 0 {
		return nil
	}
	flashes := data.flashes
	data.flashes = nil
	return flashes
}

// live returns the session if it has not expired, renewing its
// lifetime. Expired sessions are removed. Callers hold the lock.
func (s *SessionStore) live(id string) *sessionData {
	data, ok := s.sessions[id]
	if !ok {
		return nil
	}

	now := s.now()
	if now.Sub(data.lastActive) > s.ttl {
		delete(s.sessions, id)
		return nil
	}

	data.lastActive = now
	return data
}

// ensure returns the live session, recreating it if it expired while
// the client still holds a valid cookie. Callers hold the lock.
func (s *SessionStore) ensure(id string) *sessionData {
	if data := s.live(id); data != nil {
		return data
	}
	data := &sessionData{lastActive: s.now()}
	s.sessions[id] = data
	return data
}
