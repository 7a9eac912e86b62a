package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/common/forms"
	"github.com/dmitrijs2005/medcasegen/internal/web/flash"
	"github.com/dmitrijs2005/medcasegen/internal/web/views"
)

const (
	msgLoginMissing     = "Veuillez remplir tous les champs."
	msgLoginOK          = "Connexion réussie ! Bienvenue sur MedCaseGen."
	msgLoginFailed      = "Erreur de connexion. Veuillez réessayer."
	msgRegisterInvalid  = "Veuillez remplir tous les champs requis."
	msgRegisterOK       = "Compte créé avec succès 🎉"
	msgRegisterFailed   = "Une erreur est survenue lors de l'inscription"
	msgForgotMissing    = "Veuillez entrer votre email."
	msgResetOK          = "Mot de passe réinitialisé. Vous pouvez vous connecter."
	msgResetInvalidLink = "Lien de réinitialisation invalide ou expiré."
	msgLogoutOK         = "Déconnecté avec succès."
	msgLogoutFailed     = "Erreur lors de la déconnexion."
)

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := forms.LoginForm{Redirect: q.Get(common.RedirectParam), Admin: q.Get("admin") != ""}
	h.render(w, r, http.StatusOK, views.Login, views.Page{Title: "Connexion", Form: form})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseLogin(r)
	page := views.Page{Title: "Connexion", Form: form}

	if errs := form.Validate(); !errs.Valid() {
		page.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, views.Login, page, flash.Message{Kind: flash.Error, Text: msgLoginMissing})
		return
	}

	s := h.session(w, r)
	var err error
	if form.Admin {
		_, err = s.api.AdminLogin(r.Context(), form.Email, form.Password)
	} else {
		_, err = s.api.Login(r.Context(), form.Email, form.Password)
	}
	if err != nil {
		// a rejected login is answered here; the login page is already the destination
		h.logger.Info(r.Context(), "login failed", "admin", form.Admin, "error", err)
		h.render(w, r, statusFor(err), views.Login, page, flash.Message{Kind: flash.Error, Text: msgLoginFailed})
		return
	}

	h.redirect(w, r, safeRedirect(form.Redirect), flash.Success, msgLoginOK)
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.Register, views.Page{Title: "Inscription", Form: forms.RegisterForm{}})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseRegister(r)
	page := views.Page{Title: "Inscription", Form: form}

	if errs := form.Validate(); !errs.Valid() {
		page.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, views.Register, page, flash.Message{Kind: flash.Error, Text: msgRegisterInvalid})
		return
	}

	s := h.session(w, r)
	if _, err := s.api.Register(r.Context(), form.Registration()); err != nil {
		h.logger.Info(r.Context(), "registration failed", "error", err)
		h.render(w, r, statusFor(err), views.Register, page, flash.Message{Kind: flash.Error, Text: msgRegisterFailed})
		return
	}

	h.redirect(w, r, common.LoginPath, flash.Success, msgRegisterOK)
}

func (h *Handler) forgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.ForgotPassword, views.Page{
		Title: "Mot de passe oublié",
		Form:  forms.ForgotPasswordForm{},
		Data:  views.ForgotPasswordData{},
	})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseForgotPassword(r)
	page := views.Page{Title: "Mot de passe oublié", Form: form, Data: views.ForgotPasswordData{}}

	if errs := form.Validate(); !errs.Valid() {
		page.Errors = errs
		var extra []flash.Message
		if form.Email == "" {
			extra = append(extra, flash.Message{Kind: flash.Error, Text: msgForgotMissing})
		}
		h.render(w, r, http.StatusUnprocessableEntity, views.ForgotPassword, page, extra...)
		return
	}

	s := h.session(w, r)
	redirectTo := strings.TrimSuffix(h.cfg.PublicURL, "/") + "/reset-password"
	if err := s.api.ForgotPassword(r.Context(), form.Email, redirectTo); err != nil {
		h.logger.Warn(r.Context(), "password reset request failed", "error", err)
		h.render(w, r, statusFor(err), views.ForgotPassword, page, flash.Message{Kind: flash.Error, Text: msgGenericError})
		return
	}

	page.Data = views.ForgotPasswordData{Sent: true}
	h.render(w, r, http.StatusOK, views.ForgotPassword, page)
}

func (h *Handler) resetPasswordPage(w http.ResponseWriter, r *http.Request) {
	form := forms.ResetPasswordForm{Token: r.URL.Query().Get("token")}
	h.render(w, r, http.StatusOK, views.ResetPassword, views.Page{Title: "Nouveau mot de passe", Form: form})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseResetPassword(r)
	// passwords are never echoed back
	page := views.Page{Title: "Nouveau mot de passe", Form: forms.ResetPasswordForm{Token: form.Token}}

	if errs := form.Validate(); !errs.Valid() {
		page.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, views.ResetPassword, page)
		return
	}

	s := h.session(w, r)
	if err := s.api.ResetPassword(r.Context(), form.Token, form.Password); err != nil {
		h.logger.Info(r.Context(), "password reset failed", "error", err)
		msg := msgGenericError
		if errors.Is(err, client.ErrInvalidInput) {
			msg = msgResetInvalidLink
		}
		h.render(w, r, statusFor(err), views.ResetPassword, page, flash.Message{Kind: flash.Error, Text: msg})
		return
	}

	h.redirect(w, r, common.LoginPath, flash.Success, msgResetOK)
}

func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.Logout, views.Page{Title: "Déconnexion"})
}

// logout ends the session on the API. The token cookie is dropped whatever
// the API answers; a 401 means the session was already over.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	err := s.api.Logout(r.Context())
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		h.logger.Warn(r.Context(), "logout failed", "error", err)
		h.redirect(w, r, common.LoginPath, flash.Error, msgLogoutFailed)
		return
	}

	h.redirect(w, r, common.LoginPath, flash.Success, msgLogoutOK)
}
