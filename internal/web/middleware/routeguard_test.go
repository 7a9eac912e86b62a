package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// okHandler records that it ran and echoes a marker body.
type okHandler struct {
	called int
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called++
	w.Header().Set("X-Next", "1")
	_, _ = w.Write([]byte("next"))
}

func serve(p Policy, path string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *okHandler) {
	next := &okHandler{}
	h := RouteGuard(p, logging.Discard())(next)

	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w, next
}

var tokenCookie = &http.Cookie{Name: "auth-token", Value: "tok"}

func TestRouteGuard_ProtectedWithoutCookieRedirects(t *testing.T) {
	w, next := serve(DefaultPolicy(false), "/dashboard/anything")

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard%2Fanything", w.Header().Get("Location"))
	assert.Zero(t, next.called)
}

func TestRouteGuard_ProtectedWithCookiePassesThrough(t *testing.T) {
	w, next := serve(DefaultPolicy(false), "/dashboard/anything", tokenCookie)

	assert.Equal(t, 1, next.called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "next", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Next"))
	assert.Empty(t, w.Header().Get("Location"))
}

func TestRouteGuard_EmptyCookieCountsAsAbsent(t *testing.T) {
	w, next := serve(DefaultPolicy(false), "/dashboard", &http.Cookie{Name: "auth-token", Value: ""})

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", w.Header().Get("Location"))
	assert.Zero(t, next.called)
}

func TestRouteGuard_QueryIsNotPartOfRedirectTarget(t *testing.T) {
	w, _ := serve(DefaultPolicy(false), "/dashboard/stats?range=7d")

	assert.Equal(t, "/login?redirect=%2Fdashboard%2Fstats", w.Header().Get("Location"))
}

func TestRouteGuard_AuthOnlyPolicy(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		for _, path := range []string{"/login", "/register"} {
			w, next := serve(DefaultPolicy(false), path, tokenCookie)
			assert.Equal(t, 1, next.called, path)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("enabled redirects authenticated visitors", func(t *testing.T) {
		w, next := serve(DefaultPolicy(true), "/register", tokenCookie)
		assert.Zero(t, next.called)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("enabled lets anonymous visitors through", func(t *testing.T) {
		_, next := serve(DefaultPolicy(true), "/login")
		assert.Equal(t, 1, next.called)
	})
}

func TestRouteGuard_PublicAndExcludedPassThrough(t *testing.T) {
	for _, path := range []string{"/", "/forgot-password", "/logout", "/static/app.css", "/api/health", "/favicon.ico", "/login/extra"} {
		w, next := serve(DefaultPolicy(true), path)
		require.Equal(t, 1, next.called, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestPolicy_Classify(t *testing.T) {
	p := DefaultPolicy(false)
	tests := map[string]Class{
		"/":                   Public,
		"/dashboard":          Protected,
		"/dashboard/settings": Protected,
		"/dashboards":         Protected,
		"/login":              AuthOnly,
		"/register":           AuthOnly,
		"/register/":          Public,
		"/static/app.css":     Excluded,
		"/api":                Excluded,
		"/api/auth/login":     Excluded,
		"/favicon.ico":        Excluded,
		"/apis":               Public,
	}
	for path, want := range tests {
		assert.Equal(t, want, p.Classify(path), path)
	}
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "auth-only", AuthOnly.String())
	assert.Equal(t, "excluded", Excluded.String())
	assert.Equal(t, "public", Public.String())
}
