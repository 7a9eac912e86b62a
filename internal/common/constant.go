// Package common contains constants and sentinel errors shared by the
// MedCaseGen web frontend, the development auth API and the CLI.
package common

import "time"

// TokenCookieName is the cookie that carries the session token in the browser.
const TokenCookieName = "auth-token"

// TokenTTL is how long a stored session token stays valid on the client.
const TokenTTL = 7 * 24 * time.Hour

// AuthorizationHeader and BearerPrefix form the credential attached to API calls.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Page paths used by redirects across the frontend.
const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	RedirectParam = "redirect"
)

// AppName is shown in page titles and notifications.
const AppName = "MedCaseGen"
