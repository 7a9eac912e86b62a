package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestStore_AddThenPopAcrossRequests(t *testing.T) {
	s := NewStore(secret, false)

	w0 := httptest.NewRecorder()
	require.NoError(t, s.Add(w0, requestWith(nil), Success, "Déconnecté avec succès."))
	w1 := httptest.NewRecorder()
	require.NoError(t, s.Add(w1, requestWith(w0.Result().Cookies()), Error, "second"))

	w2 := httptest.NewRecorder()
	got := s.Pop(w2, requestWith(w1.Result().Cookies()))
	assert.Equal(t, []Message{
		{Kind: Success, Text: "Déconnecté avec succès."},
		{Kind: Error, Text: "second"},
	}, got)

	w3 := httptest.NewRecorder()
	assert.Empty(t, s.Pop(w3, requestWith(w2.Result().Cookies())), "messages are shown once")
}

func TestStore_PopWithoutCookie(t *testing.T) {
	s := NewStore(secret, false)
	w := httptest.NewRecorder()

	assert.Nil(t, s.Pop(w, requestWith(nil)))
	assert.Empty(t, w.Result().Cookies())
}

func TestStore_TamperedCookieIsIgnored(t *testing.T) {
	s := NewStore(secret, false)
	r := requestWith([]*http.Cookie{{Name: CookieName, Value: "garbage"}})

	w := httptest.NewRecorder()
	assert.Empty(t, s.Pop(w, r))
	require.NoError(t, s.Add(w, r, Info, "still works"))
}

func TestStore_CookieAttributes(t *testing.T) {
	s := NewStore(secret, true)
	w := httptest.NewRecorder()
	require.NoError(t, s.Add(w, requestWith(nil), Info, "x"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}
