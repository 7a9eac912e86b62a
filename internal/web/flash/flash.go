// Package flash carries transient notifications ("toasts") across a
// redirect, in a signed cookie managed by gorilla/sessions.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

type Message struct {
	Kind Kind
	Text string
}

func init() {
	gob.Register(Message{})
}

// CookieName is the name of the flash cookie.
const CookieName = "medcasegen-flash"

type Store struct {
	sessions sessions.Store
}

// NewStore signs the flash cookie with secret. The cookie is Secure when
// secure is true.
func NewStore(secret []byte, secure bool) *Store {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{sessions: cs}
}

// Add queues a message for the next page rendered to this browser.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, kind Kind, text string) error {
	// a cookie that fails to decode yields a fresh session, which is fine here
	sess, _ := s.sessions.Get(r, CookieName)
	sess.AddFlash(Message{Kind: kind, Text: text})
	return sess.Save(r, w)
}

// Pop returns and removes the queued messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	sess, _ := s.sessions.Get(r, CookieName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}

	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			out = append(out, m)
		}
	}
	_ = sess.Save(r, w)
	return out
}
