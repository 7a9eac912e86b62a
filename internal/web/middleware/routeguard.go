// Package middleware holds the HTTP middleware of the web frontend.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// Class is the access class of a request path.
type Class int

const (
	Public Class = iota
	Protected
	AuthOnly
	Excluded
)

func (c Class) String() string {
	switch c {
	case Protected:
		return "protected"
	case AuthOnly:
		return "auth-only"
	case Excluded:
		return "excluded"
	default:
		return "public"
	}
}

// Policy is the static route table consulted by RouteGuard.
type Policy struct {
	// ProtectedPrefixes require the token cookie. Matching is a plain prefix
	// test, so "/dashboard" also covers "/dashboards".
	ProtectedPrefixes []string
	// AuthOnlyPaths are matched exactly.
	AuthOnlyPaths []string
	// ExcludedPrefixes and ExcludedPaths are never inspected.
	ExcludedPrefixes []string
	ExcludedPaths    []string

	CookieName string
	LoginPath  string
	// HomePath receives authenticated visitors of auth-only pages when
	// RedirectAuthenticated is set.
	HomePath              string
	RedirectAuthenticated bool
}

// DefaultPolicy protects /dashboard and marks /login and /register as
// auth-only. Authenticated visitors are not redirected away from auth-only
// pages unless redirectAuthenticated is true.
func DefaultPolicy(redirectAuthenticated bool) Policy {
	return Policy{
		ProtectedPrefixes:     []string{common.DashboardPath},
		AuthOnlyPaths:         []string{common.LoginPath, common.RegisterPath},
		ExcludedPrefixes:      []string{"/api/", "/static/"},
		ExcludedPaths:         []string{"/api", "/static", "/favicon.ico"},
		CookieName:            common.TokenCookieName,
		LoginPath:             common.LoginPath,
		HomePath:              common.DashboardPath,
		RedirectAuthenticated: redirectAuthenticated,
	}
}

func (p Policy) Classify(path string) Class {
	for _, ex := range p.ExcludedPaths {
		if path == ex {
			return Excluded
		}
	}
	for _, ex := range p.ExcludedPrefixes {
		if strings.HasPrefix(path, ex) {
			return Excluded
		}
	}
	for _, prefix := range p.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Protected
		}
	}
	for _, ao := range p.AuthOnlyPaths {
		if path == ao {
			return AuthOnly
		}
	}
	return Public
}

// LoginURL is the login page with path attached as the post-login target.
func (p Policy) LoginURL(path string) string {
	return p.LoginPath + "?" + url.Values{common.RedirectParam: {path}}.Encode()
}

func (p Policy) hasToken(r *http.Request) bool {
	c, err := r.Cookie(p.CookieName)
	return err == nil && c.Value != ""
}

// RouteGuard redirects (307) visitors without the token cookie away from
// protected pages to the login page, keeping the requested path in the
// "redirect" query parameter. Every other request passes through untouched.
func RouteGuard(p Policy, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			switch p.Classify(path) {
			case Protected:
				if !p.hasToken(r) {
					logger.Debug(r.Context(), "unauthenticated visit to protected page", "path", path)
					http.Redirect(w, r, p.LoginURL(path), http.StatusTemporaryRedirect)
					return
				}
			case AuthOnly:
				if p.RedirectAuthenticated && p.hasToken(r) {
					http.Redirect(w, r, p.HomePath, http.StatusTemporaryRedirect)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
