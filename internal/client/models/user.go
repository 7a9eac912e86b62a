// Package models holds the JSON shapes exchanged with the MedCaseGen auth API.
package models

// User is the profile returned next to a session.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Prenom        string `json:"prenom,omitempty"`
	Sexe          string `json:"sexe,omitempty"`
	DateNaissance string `json:"date_naissance,omitempty"`
	Telephone     string `json:"telephone,omitempty"`
	Ville         string `json:"ville,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Role          string `json:"role,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
}

// DisplayName is the name shown in greetings.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Prenom != "":
		return u.Prenom
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

// Session is the credential issued on login. ExpiresAt is a unix timestamp.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AuthResult is the body of a successful login.
type AuthResult struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Name          string `json:"name"`
	Prenom        string `json:"prenom,omitempty"`
	Sexe          string `json:"sexe,omitempty"`
	DateNaissance string `json:"date_naissance"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Telephone     string `json:"telephone,omitempty"`
	Ville         string `json:"ville,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
}
