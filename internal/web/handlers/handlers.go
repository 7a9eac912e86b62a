package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/dmitrijs2005/medcasegen/internal/web/config"
	"github.com/dmitrijs2005/medcasegen/internal/web/flash"
	"github.com/dmitrijs2005/medcasegen/internal/web/middleware"
	"github.com/dmitrijs2005/medcasegen/internal/web/views"
	"github.com/gorilla/mux"
)

const (
	msgSessionExpired = "Votre session a expiré. Veuillez vous reconnecter."
	msgGenericError   = "Une erreur est survenue. Veuillez réessayer."
)

type Handler struct {
	cfg     *config.Config
	api     *client.HTTPClient
	views   *views.Renderer
	flash   *flash.Store
	policy  middleware.Policy
	cookies tokenstore.CookieOptions
	logger  logging.Logger
}

// New wires the page handlers. api is only used as a template: each request
// binds its own copy to the visitor's cookies.
func New(cfg *config.Config, api *client.HTTPClient, renderer *views.Renderer, fl *flash.Store, logger logging.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		api:     api,
		views:   renderer,
		flash:   fl,
		policy:  middleware.DefaultPolicy(cfg.RedirectAuthenticated),
		cookies: tokenstore.DefaultCookieOptions(cfg.Environment),
		logger:  logger,
	}
}

// Routes returns the full handler chain: request logging, then the route
// guard, then the router.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.home).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/favicon.ico", h.favicon).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(views.Static()).Methods(http.MethodGet)

	r.HandleFunc(common.LoginPath, h.loginPage).Methods(http.MethodGet)
	r.HandleFunc(common.LoginPath, h.login).Methods(http.MethodPost)
	r.HandleFunc(common.RegisterPath, h.registerPage).Methods(http.MethodGet)
	r.HandleFunc(common.RegisterPath, h.register).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", h.forgotPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/forgot-password", h.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", h.resetPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/reset-password", h.resetPassword).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logoutPage).Methods(http.MethodGet)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodPost)

	r.HandleFunc(common.DashboardPath, h.dashboard).Methods(http.MethodGet)
	r.HandleFunc(common.DashboardPath+"/{section}", h.dashboard).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(h.notFound)

	return middleware.RequestLogger(h.logger)(middleware.RouteGuard(h.policy, h.logger)(r))
}

// loginNavigator records that the API rejected the visitor's token. The
// handler performs the actual redirect once the call returns.
type loginNavigator struct {
	requested bool
}

func (n *loginNavigator) ToLogin(context.Context) {
	n.requested = true
}

type session struct {
	api client.Client
	nav *loginNavigator
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session {
	store := tokenstore.NewCookieStore(w, r, h.cookies, h.logger)
	nav := &loginNavigator{}
	return &session{api: h.api.Bind(store, nav), nav: nav}
}

// render shows page name, with any queued notifications followed by extra.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p views.Page, extra ...flash.Message) {
	p.Flashes = append(h.flash.Pop(w, r), extra...)
	if err := h.views.Render(w, status, name, p); err != nil {
		h.logger.Error(r.Context(), "render failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect queues a notification and sends the browser to target.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string, kind flash.Kind, text string) {
	if err := h.flash.Add(w, r, kind, text); err != nil {
		h.logger.Warn(r.Context(), "cannot queue notification", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// expired sends a visitor whose token was rejected back to the login page.
func (h *Handler) expired(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, h.policy.LoginURL(r.URL.Path), flash.Info, msgSessionExpired)
}

// safeRedirect accepts local absolute paths only.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return common.DashboardPath
	}
	return target
}

// statusFor maps an API error to the status of the re-rendered form.
func statusFor(err error) int {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, client.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, client.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, client.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.Home, views.Page{})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) favicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, views.NotFound, views.Page{Title: "Page introuvable"})
}
