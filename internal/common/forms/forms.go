// Package forms parses and validates the authentication forms used by the
// web pages and the CLI. Validation runs before any API call; a form with
// errors is never submitted.
package forms

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/client/models"
)

// MinPasswordLength is the shortest password accepted on registration and reset.
const MinPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[+0-9\s-]{7,}$`)
)

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

type LoginForm struct {
	Email    string
	Password string
	Redirect string
	Admin    bool
}

func ParseLogin(r *http.Request) LoginForm {
	return LoginForm{
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
		Redirect: field(r, "redirect"),
		Admin:    r.PostFormValue("admin") != "",
	}
}

// Validate only checks presence; credentials are the API's business.
func (f LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Email == "" {
		errs["email"] = "L'email est requis"
	}
	if f.Password == "" {
		errs["password"] = "Le mot de passe est requis"
	}
	return errs
}

type RegisterForm struct {
	Name          string
	Prenom        string
	Sexe          string
	DateNaissance string
	Email         string
	Password      string
	Telephone     string
	Ville         string
	Adresse       string
	AvatarURL     string
	Bio           string
}

func ParseRegister(r *http.Request) RegisterForm {
	return RegisterForm{
		Name:          field(r, "name"),
		Prenom:        field(r, "prenom"),
		Sexe:          field(r, "sexe"),
		DateNaissance: field(r, "date_naissance"),
		Email:         field(r, "email"),
		Password:      r.PostFormValue("password"),
		Telephone:     field(r, "telephone"),
		Ville:         field(r, "ville"),
		Adresse:       field(r, "adresse"),
		AvatarURL:     field(r, "avatar_url"),
		Bio:           field(r, "bio"),
	}
}

func (f RegisterForm) Validate() Errors {
	errs := Errors{}

	if f.Name == "" {
		errs["name"] = "Le nom est requis"
	}

	switch {
	case f.Email == "":
		errs["email"] = "L'email est requis"
	case !validEmail(f.Email):
		errs["email"] = "Format d'email invalide"
	}

	if msg := passwordError(f.Password); msg != "" {
		errs["password"] = msg
	}

	if f.DateNaissance == "" {
		errs["date_naissance"] = "La date de naissance est requise"
	}

	switch f.Sexe {
	case "", "homme", "femme":
	default:
		errs["sexe"] = "Sexe invalide"
	}

	if f.Telephone != "" && !phonePattern.MatchString(f.Telephone) {
		errs["telephone"] = "Numéro de téléphone invalide"
	}

	return errs
}

func (f RegisterForm) Registration() models.Registration {
	return models.Registration{
		Name:          f.Name,
		Prenom:        f.Prenom,
		Sexe:          f.Sexe,
		DateNaissance: f.DateNaissance,
		Email:         f.Email,
		Password:      f.Password,
		Telephone:     f.Telephone,
		Ville:         f.Ville,
		Adresse:       f.Adresse,
		AvatarURL:     f.AvatarURL,
		Bio:           f.Bio,
	}
}

func passwordError(p string) string {
	switch {
	case p == "":
		return "Le mot de passe est requis"
	case len([]rune(p)) < MinPasswordLength:
		return "Le mot de passe doit faire au moins 6 caractères"
	}
	return ""
}

type ForgotPasswordForm struct {
	Email string
}

func ParseForgotPassword(r *http.Request) ForgotPasswordForm {
	return ForgotPasswordForm{Email: field(r, "email")}
}

func (f ForgotPasswordForm) Validate() Errors {
	errs := Errors{}
	switch {
	case f.Email == "":
		errs["email"] = "L'email est requis"
	case !validEmail(f.Email):
		errs["email"] = "Format d'email invalide"
	}
	return errs
}

type ResetPasswordForm struct {
	Token    string
	Password string
	Confirm  string
}

func ParseResetPassword(r *http.Request) ResetPasswordForm {
	return ResetPasswordForm{
		Token:    field(r, "token"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
}

func (f ResetPasswordForm) Validate() Errors {
	errs := Errors{}
	if f.Token == "" {
		errs["token"] = "Lien de réinitialisation invalide"
	}
	if msg := passwordError(f.Password); msg != "" {
		errs["password"] = msg
	} else if f.Confirm != f.Password {
		errs["confirm"] = "Les mots de passe ne correspondent pas"
	}
	return errs
}
