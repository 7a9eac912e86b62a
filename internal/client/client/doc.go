// Package client talks to the MedCaseGen auth API over JSON/HTTP.
//
// # Overview
//
// Client is the transport-agnostic contract used by the web frontend and the
// CLI. HTTPClient implements it on top of net/http with a two-stage
// transport:
//
//  1. authorizer reads the token store before every request and attaches
//     "Authorization: Bearer <token>" when a token is present.
//  2. responseGuard inspects every response; a 401 clears the token store
//     once and asks the Navigator (if any) to move the user to the login
//     screen. The response itself is passed through unchanged.
//
// Login and AdminLogin store the returned access token; Logout clears it.
//
// # Errors
//
// Non-2xx responses become *APIError, which unwraps to a sentinel error
// (ErrUnauthorized, ErrForbidden, ErrConflict, ErrInvalidInput, ErrNotFound,
// ErrUnavailable). Transport failures and timeouts wrap ErrUnavailable.
//
// # Concurrency
//
// An HTTPClient is safe for concurrent use when its token store is. The web
// frontend shares one HTTPClient and calls Bind per request to attach the
// request-scoped cookie store and navigator.
//
// InitDatabase opens the CLI's SQLite database and applies the embedded
// goose migrations.
package client
