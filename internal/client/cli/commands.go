package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/common/forms"
)

var (
	errNotLoggedIn     = errors.New("Non connecté.")
	errAlreadyLoggedIn = errors.New("Déjà connecté. Utilisez 'logout' d'abord.")
	errInvalidInput    = errors.New("Saisie invalide.")
)

// registerFields is the order in which validation messages are printed.
var registerFields = []string{"name", "email", "password", "date_naissance", "sexe", "telephone"}

func (a *App) prompt(label string) (string, error) {
	return GetSimpleText(a.reader, label, a.out)
}

func (a *App) password(label string) (string, error) {
	return GetPassword(label, a.out)
}

func (a *App) printErrors(errs forms.Errors, order []string) {
	for _, f := range order {
		if errs.Has(f) {
			printlnFn(" -", errs.Get(f))
		}
	}
}

// describe turns an API error into a message for the terminal.
// unauthorized is used for 401 because its meaning depends on the command.
func (a *App) describe(ctx context.Context, err error, unauthorized string) error {
	a.logger.Debug(ctx, "command failed", "error", err)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return errors.New(unauthorized)
	case errors.Is(err, client.ErrForbidden):
		return errors.New("Accès administrateur requis.")
	case errors.Is(err, client.ErrConflict):
		return errors.New("Un compte existe déjà avec cet email.")
	case errors.Is(err, client.ErrNotFound):
		return errors.New("Introuvable.")
	case errors.Is(err, client.ErrUnavailable):
		return errors.New("Serveur indisponible.")
	case errors.Is(err, client.ErrInvalidInput):
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return errors.New(apiErr.Message)
		}
		return errInvalidInput
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn(ctx) {
		return errAlreadyLoggedIn
	}

	var f forms.RegisterForm
	fields := []struct {
		label string
		dst   *string
	}{
		{"Nom", &f.Name},
		{"Prénom", &f.Prenom},
		{"Sexe (homme/femme, optionnel)", &f.Sexe},
		{"Date de naissance (AAAA-MM-JJ)", &f.DateNaissance},
		{"Email", &f.Email},
		{"Téléphone (optionnel)", &f.Telephone},
		{"Ville (optionnel)", &f.Ville},
	}
	for _, fld := range fields {
		v, err := a.prompt(fld.label)
		if err != nil {
			return err
		}
		*fld.dst = v
	}
	pw, err := a.password("Mot de passe")
	if err != nil {
		return err
	}
	f.Password = pw

	if errs := f.Validate(); !errs.Valid() {
		a.printErrors(errs, registerFields)
		return errInvalidInput
	}

	user, err := a.api.Register(ctx, f.Registration())
	if err != nil {
		return a.describe(ctx, err, "Inscription refusée.")
	}
	printlnFn(fmt.Sprintf("Compte créé pour %s. Connectez-vous avec 'login'.", user.Email))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	return a.login(ctx, false)
}

func (a *App) AdminLogin(ctx context.Context) error {
	return a.login(ctx, true)
}

func (a *App) login(ctx context.Context, admin bool) error {
	if a.isLoggedIn(ctx) {
		return errAlreadyLoggedIn
	}

	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	pw, err := a.password("Mot de passe")
	if err != nil {
		return err
	}

	f := forms.LoginForm{Email: email, Password: pw, Admin: admin}
	if errs := f.Validate(); !errs.Valid() {
		a.printErrors(errs, []string{"email", "password"})
		return errInvalidInput
	}

	loginFn := a.api.Login
	if admin {
		loginFn = a.api.AdminLogin
	}
	res, err := loginFn(ctx, f.Email, f.Password)
	if err != nil {
		return a.describe(ctx, err, "Identifiants invalides.")
	}

	a.email = res.User.Email
	printlnFn(fmt.Sprintf("Connexion réussie. Bonjour, %s !", res.User.DisplayName()))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}

	err := a.api.Logout(ctx)
	a.email = ""
	// a rejected token means the session is already gone
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}
	printlnFn("Déconnexion réussie.")
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := a.prompt("Email du compte")
	if err != nil {
		return err
	}

	f := forms.ForgotPasswordForm{Email: email}
	if errs := f.Validate(); !errs.Valid() {
		a.printErrors(errs, []string{"email"})
		return errInvalidInput
	}

	if err := a.api.ForgotPassword(ctx, f.Email, ""); err != nil {
		return a.describe(ctx, err, "Requête refusée.")
	}
	printlnFn("Si un compte existe pour cet email, un lien de réinitialisation a été envoyé.")
	return nil
}

// ResetPassword takes the token as first argument or prompts for it.
func (a *App) ResetPassword(ctx context.Context, args []string) error {
	var f forms.ResetPasswordForm
	if len(args) > 0 {
		f.Token = args[0]
	} else {
		token, err := a.prompt("Jeton de réinitialisation")
		if err != nil {
			return err
		}
		f.Token = token
	}

	pw, err := a.password("Nouveau mot de passe")
	if err != nil {
		return err
	}
	confirm, err := a.password("Confirmez le mot de passe")
	if err != nil {
		return err
	}
	f.Password, f.Confirm = pw, confirm

	if errs := f.Validate(); !errs.Valid() {
		a.printErrors(errs, []string{"token", "password", "confirm"})
		return errInvalidInput
	}

	if err := a.api.ResetPassword(ctx, f.Token, f.Password); err != nil {
		if errors.Is(err, client.ErrInvalidInput) {
			return errors.New("Lien de réinitialisation invalide ou expiré.")
		}
		return a.describe(ctx, err, "Lien de réinitialisation invalide ou expiré.")
	}
	printlnFn("Mot de passe mis à jour. Vous pouvez vous connecter.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}

	user, err := a.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.email = ""
		}
		return a.describe(ctx, err, "Session expirée. Veuillez vous reconnecter.")
	}

	a.email = user.Email
	printlnFn(fmt.Sprintf("%s <%s>", user.DisplayName(), user.Email))
	if user.Role != "" {
		printlnFn("Rôle :", user.Role)
	}
	if user.IsAdmin {
		printlnFn("Administrateur")
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	if a.isLoggedIn(ctx) {
		printlnFn("Connecté", a.status(ctx))
	} else {
		printlnFn("Non connecté.")
	}
	printlnFn("API :", a.config.APIBaseURL)
	return nil
}
