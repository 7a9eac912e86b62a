// Package views renders the HTML pages of the web frontend from embedded
// templates and serves the embedded static assets.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dmitrijs2005/medcasegen/internal/client/models"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/common/forms"
	"github.com/dmitrijs2005/medcasegen/internal/web/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	Home           = "home"
	Login          = "login"
	Register       = "register"
	ForgotPassword = "forgot_password"
	ResetPassword  = "reset_password"
	Logout         = "logout"
	Dashboard      = "dashboard"
	NotFound       = "not_found"
)

var pages = []string{Home, Login, Register, ForgotPassword, ResetPassword, Logout, Dashboard, NotFound}

// Page is the data every template receives. Form and Data are page specific.
type Page struct {
	Title   string
	Flashes []flash.Message
	Form    any
	Errors  forms.Errors
	View    ViewState
	Data    any
}

// DashboardData is the Data of the dashboard page.
type DashboardData struct {
	User    *models.User
	Nav     []NavSection
	Section NavItem
	Path    string
}

// ForgotPasswordData is the Data of the forgot password page.
type ForgotPasswordData struct {
	Sent bool
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"appName": func() string { return common.AppName },
}

// NewRenderer parses every page together with the base layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(funcs).
			ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with the given status. The page is rendered into
// a buffer first so a template error never leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if p.View.Lang == "" {
		p.View = DefaultViewState()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
