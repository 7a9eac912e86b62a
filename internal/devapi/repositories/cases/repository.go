// Package cases stores the clinical cases served by the development API.
package cases

import (
	"context"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
)

// Repository keeps clinical cases. A second case with the same SourceID
// yields common.ErrorAlreadyExists; unknown ids yield common.ErrorNotFound.
// List returns every case when status is empty, oldest first.
type Repository interface {
	Create(ctx context.Context, c *models.ClinicalCase) (*models.ClinicalCase, error)
	GetByID(ctx context.Context, id string) (*models.ClinicalCase, error)
	List(ctx context.Context, status string) ([]*models.ClinicalCase, error)
	SetStatus(ctx context.Context, id, status, validatedBy string) error
}
