package session

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip copies the cookies set on w onto a new request.
func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestStore(t *testing.T) {
	store := NewStore("test-secret", time.Hour, false)

	t.Run("anonymous request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, store.Token(r))
	})

	t.Run("token and flashes survive the round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		require.NoError(t, store.Save(w, r, "tok-1", []string{"Login success."}))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)

		next := roundTrip(w)
		assert.Equal(t, "tok-1", string(store.Token(next)))

		drain := httptest.NewRecorder()
		flashes, err := store.Flashes(drain, next)
		require.NoError(t, err)
		assert.Equal(t, []string{"Login success."}, flashes)

		again, err := store.Flashes(httptest.NewRecorder(), roundTrip(drain))
		require.NoError(t, err)
		assert.Empty(t, again, "flashes are shown once")
		assert.Equal(t, "tok-1", string(store.Token(roundTrip(drain))))
	})

	t.Run("empty token clears the session", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, store.Save(w, httptest.NewRequest(http.MethodPost, "/", nil), "tok-2", nil))

		out := httptest.NewRecorder()
		require.NoError(t, store.Save(out, roundTrip(w), "", []string{"Goodbye."}))
		assert.Empty(t, store.Token(roundTrip(out)))
	})

	t.Run("cookie from another secret is ignored", func(t *testing.T) {
		w := httptest.NewRecorder()
		other := NewStore("other-secret", time.Hour, false)
		require.NoError(t, other.Save(w, httptest.NewRequest(http.MethodPost, "/", nil), "forged", nil))

		assert.Empty(t, store.Token(roundTrip(w)))
	})

	t.Run("flash queue keeps the newest messages", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		for i := 0; i < 3*MaxFlashes; i++ {
			w := httptest.NewRecorder()
			require.NoError(t, store.Save(w, r, "tok-3", []string{fmt.Sprintf("msg %d", i)}))
			r = roundTrip(w)
		}

		flashes, err := store.Flashes(httptest.NewRecorder(), r)
		require.NoError(t, err)
		require.Len(t, flashes, MaxFlashes)
		assert.Equal(t, fmt.Sprintf("msg %d", 2*MaxFlashes), flashes[0])
		assert.Equal(t, fmt.Sprintf("msg %d", 3*MaxFlashes-1), flashes[MaxFlashes-1])
		assert.Equal(t, "tok-3", string(store.Token(r)))
	})
}
