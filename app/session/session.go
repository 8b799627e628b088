// Package session carries the auth token and pending flash messages in a
// signed, encrypted cookie.
package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"folio/app/auth"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "folio_session"

// MaxFlashes is how many undelivered flash messages a cookie keeps. Older
// ones are dropped first.
const MaxFlashes = 10

const tokenKey = "token"

// Store reads and writes the session cookie.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore derives the signing and encryption keys from secret. ttl sets the
// cookie lifetime; secure restricts the cookie to HTTPS.
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	cookies := sessions.NewCookieStore(h[:], e[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &Store{cookies: cookies}
}

func (s *Store) get(r *http.Request) *sessions.Session {
	// A cookie that fails to decode (rotated secret, tampering) yields a
	// fresh session, which is what we want.
	sess, _ := s.cookies.Get(r, CookieName)
	return sess
}

// Token returns the auth token carried by r, or the anonymous zero Token.
func (s *Store) Token(r *http.Request) auth.Token {
	if v, ok := s.get(r).Values[tokenKey].(string); ok {
		return auth.Token(v)
	}
	return ""
}

// Save writes token and appends flashes to the cookie, keeping only the
// newest MaxFlashes. An empty token removes it. Call before the response
// body is written.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, token auth.Token, flashes []string) error {
	sess := s.get(r)
	if token == "" {
		delete(sess.Values, tokenKey)
	} else {
		sess.Values[tokenKey] = string(token)
	}

	pending := append(sess.Flashes(), toValues(flashes)...)
	if len(pending) > MaxFlashes {
		pending = pending[len(pending)-MaxFlashes:]
	}
	for _, f := range pending {
		sess.AddFlash(f)
	}
	return sess.Save(r, w)
}

func toValues(flashes []string) []interface{} {
	out := make([]interface{}, len(flashes))
	for i, f := range flashes {
		out[i] = f
	}
	return out
}

// Flashes drains the pending flash messages.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) ([]string, error) {
	sess := s.get(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return []string{}, nil
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			out = append(out, m)
		}
	}
	return out, sess.Save(r, w)
}
