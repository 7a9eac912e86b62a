package tokenstore

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// CookieOptions describes the attributes of the token cookie.
type CookieOptions struct {
	Name   string
	Path   string
	TTL    time.Duration
	Secure bool
}

// DefaultCookieOptions returns the "auth-token" cookie settings. The Secure
// attribute is set for every environment except "development".
func DefaultCookieOptions(environment string) CookieOptions {
	return CookieOptions{
		Name:   common.TokenCookieName,
		Path:   "/",
		TTL:    common.TokenTTL,
		Secure: environment != "development",
	}
}

// CookieStore stores the token in a cookie of the exchange it is bound to.
// Tokens saved or cleared during the exchange are visible to later reads of
// the same exchange. A CookieStore must not outlive its request.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	opts   CookieOptions
	logger logging.Logger
	now    func() time.Time

	// overridden is set once Save or Clear ran; value is then authoritative.
	overridden bool
	value      string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions, logger logging.Logger) *CookieStore {
	return &CookieStore{w: w, r: r, opts: opts, logger: logger, now: time.Now}
}

func (s *CookieStore) Save(ctx context.Context, token string) {
	if token == "" {
		s.logger.Warn(ctx, "refusing to store an empty session token")
		return
	}

	s.setCookie(&http.Cookie{
		Name:     s.opts.Name,
		Value:    token,
		Path:     s.opts.Path,
		Expires:  s.now().Add(s.opts.TTL),
		MaxAge:   int(s.opts.TTL.Seconds()),
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	s.overridden, s.value = true, token
	s.logger.Debug(ctx, "session token stored", "cookie", s.opts.Name)
}

func (s *CookieStore) Read(ctx context.Context) (string, bool) {
	if s.overridden {
		return s.value, s.value != ""
	}

	c, err := s.r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Clear(ctx context.Context) {
	if _, ok := s.Read(ctx); !ok {
		return
	}

	s.setCookie(&http.Cookie{
		Name:     s.opts.Name,
		Value:    "",
		Path:     s.opts.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	s.overridden, s.value = true, ""
	s.logger.Debug(ctx, "session token cleared", "cookie", s.opts.Name)
}

// setCookie replaces any Set-Cookie header already queued for the token
// cookie, so a response never carries two competing values.
func (s *CookieStore) setCookie(c *http.Cookie) {
	h := s.w.Header()
	prefix := s.opts.Name + "="

	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}

	http.SetCookie(s.w, c)
}
