// Package tokenstore keeps the opaque session token between requests.
//
// A Store never returns errors: a token that cannot be read is reported as
// absent and failures are logged. At most one token is held at a time and
// saving a token replaces the previous one. Clearing an absent token is a
// no-op.
//
// Implementations:
//
//   - CookieStore   the browser cookie "auth-token", bound to one HTTP exchange
//   - MemoryStore   process memory, safe for concurrent use
//   - MetadataStore the CLI's local SQLite metadata table
package tokenstore

import "context"

type Store interface {
	// Save persists token. An empty token is logged and ignored.
	Save(ctx context.Context, token string)
	// Read returns the current token, if any.
	Read(ctx context.Context) (string, bool)
	// Clear removes the token.
	Clear(ctx context.Context)
}
