// Package handlers implements the pages of the MedCaseGen web frontend.
//
// Every request that talks to the auth API gets its own client bound to a
// cookie-backed token store, so the token read, saved or cleared during the
// call is the one in the visitor's browser.
package handlers
