// Package httpapi exposes the development API as JSON over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/auth"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/services"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/gorilla/mux"
)

type Server struct {
	auth   *services.AuthService
	cases  *services.CaseService
	sims   *services.SimulationService
	logger logging.Logger
}

func NewServer(svc *services.AuthService, cases *services.CaseService, sims *services.SimulationService, logger logging.Logger) *Server {
	return &Server{auth: svc, cases: cases, sims: sims, logger: logger}
}

// Routes mounts the API under /api.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/admin-login", s.adminLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password", s.resetPassword).Methods(http.MethodPost)
	api.Handle("/auth/logout", s.requireAuth(http.HandlerFunc(s.logout))).Methods(http.MethodPost)
	api.Handle("/auth/me", s.requireAuth(http.HandlerFunc(s.me))).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAuth)

	protected.HandleFunc("/cases", s.listCases).Methods(http.MethodGet)
	// registered before /cases/{id} so "export" is not taken for an id
	protected.Handle("/cases/export", s.requireAdmin(http.HandlerFunc(s.exportCases))).Methods(http.MethodGet)
	protected.Handle("/cases/import", s.requireAdmin(http.HandlerFunc(s.importCases))).Methods(http.MethodPost)
	protected.Handle("/cases/{id}/status", s.requireAdmin(http.HandlerFunc(s.setCaseStatus))).Methods(http.MethodPost)
	protected.HandleFunc("/cases/{id}", s.getCase).Methods(http.MethodGet)

	protected.HandleFunc("/simulations", s.listSimulations).Methods(http.MethodGet)
	protected.HandleFunc("/simulations/start", s.startSimulation).Methods(http.MethodPost)
	protected.HandleFunc("/simulations/{id}", s.getSimulation).Methods(http.MethodGet)
	protected.HandleFunc("/simulations/{id}/message", s.postMessage).Methods(http.MethodPost)
	protected.HandleFunc("/simulations/{id}/end", s.endSimulation).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

type claimsKey struct{}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// requireAuth accepts requests carrying a valid, unrevoked bearer token.
// Only a bad, expired or revoked token is answered with 401; a failing
// revocation lookup goes through fail like any other error.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthorizationHeader)
		token, ok := strings.CutPrefix(h, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.auth.Authenticate(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrTokenRevoked):
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		default:
			s.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// requireAdmin must run behind requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := claimsFrom(r.Context()); c == nil || !c.Admin {
			s.fail(w, r, common.ErrorForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
