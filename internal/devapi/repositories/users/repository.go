// Package users stores the accounts of the development auth API.
package users

import (
	"context"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
)

// Repository looks users up by id or by email. Emails are compared as given;
// callers normalise them. Missing users yield common.ErrorNotFound and a
// duplicate email common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}
