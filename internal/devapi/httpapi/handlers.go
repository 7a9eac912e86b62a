package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/tokens"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/services"
)

// fail maps a service error to its status; unexpected errors are logged and
// reported as 500 without details.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadJSON):
		writeError(w, http.StatusBadRequest, "malformed request body")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "administrator access required")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, tokens.ErrUnavailable):
		s.logger.Error(r.Context(), "token store unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name          string `json:"name"`
	Prenom        string `json:"prenom"`
	Sexe          string `json:"sexe"`
	DateNaissance string `json:"date_naissance"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Telephone     string `json:"telephone"`
	Ville         string `json:"ville"`
	Adresse       string `json:"adresse"`
	AvatarURL     string `json:"avatar_url"`
	Bio           string `json:"bio"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.auth.Register(r.Context(), services.Registration(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": newUserResponse(user)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.doLogin(w, r, s.auth.Login)
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	s.doLogin(w, r, s.auth.AdminLogin)
}

type loginFunc func(ctx context.Context, email, password string) (*services.Session, *models.User, error)

func (s *Server) doLogin(w http.ResponseWriter, r *http.Request, login loginFunc) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, user, err := login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(sess, user))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), claimsFrom(r.Context())); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// the account behind a valid token is gone
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": newUserResponse(user)})
}

type forgotPasswordRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo"`
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.auth.ForgotPassword(r.Context(), req.Email, req.RedirectTo); err != nil {
		// the answer never depends on the email being known
		s.logger.Error(r.Context(), "forgot password failed", "error", err)
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Si un compte existe pour cet email, un lien de réinitialisation a été envoyé."})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Mot de passe mis à jour."})
}
