// Package models holds the records stored by the development auth API.
package models

import "time"

// Roles of the platform.
const (
	RoleLearner = "APPRENANT"
	RoleExpert  = "EXPERT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID            string
	Email         string
	PasswordHash  []byte
	Name          string
	Prenom        string
	Sexe          string
	DateNaissance string
	Telephone     string
	Ville         string
	Adresse       string
	AvatarURL     string
	Bio           string
	Role          string
	IsAdmin       bool
	CreatedAt     time.Time
}
