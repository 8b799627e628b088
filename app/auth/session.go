package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Token is the opaque handle a transport (cookie, header) carries between
// requests. The zero Token is always anonymous.
type Token string

// DefaultSessionTTL matches the cookie lifetime the site has always used.
const DefaultSessionTTL = 7 * 24 * time.Hour

type session struct {
	adminID   int
	expiresAt time.Time
}

// SessionManager binds verified administrators to tokens. State lives in
// process memory only.
type SessionManager struct {
	credentials *CredentialStore
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[Token]session
}

// NewSessionManager creates a SessionManager. A non-positive ttl takes
// DefaultSessionTTL.
func NewSessionManager(credentials *CredentialStore, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		credentials: credentials,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[Token]session),
	}
}

// SetClock replaces the time source; used by tests that exercise expiry.
func (m *SessionManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Login verifies the credentials and returns a fresh authenticated token.
// A store failure is returned as-is rather than as ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, username, password string) (Token, error) {
	admin, err := m.credentials.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token := Token(uuid.NewString())
	m.mu.Lock()
	m.sessions[token] = session{adminID: admin.ID, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return token, nil
}

// Logout makes token anonymous. Unknown and empty tokens are ignored.
func (m *SessionManager) Logout(token Token) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// CurrentIdentity returns the administrator bound to token while the session
// is live.
func (m *SessionManager) CurrentIdentity(token Token) (int, bool) {
	if token == "" {
		return 0, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return 0, false
	}
	if !m.now().Before(s.expiresAt) {
		delete(m.sessions, token)
		return 0, false
	}
	return s.adminID, true
}

// RequireAuthenticated guards administrator-only operations.
func (m *SessionManager) RequireAuthenticated(token Token) (int, error) {
	id, ok := m.CurrentIdentity(token)
	if !ok {
		return 0, ErrUnauthorized
	}
	return id, nil
}

// Sweep drops expired sessions and reports how many were removed.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for token, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// Active reports the number of live sessions, expired ones included until
// the next Sweep.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
