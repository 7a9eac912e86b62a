// Package simulations stores learner simulation sessions and their chat log.
package simulations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
)

// Repository keeps simulation sessions.
//
// GetOrCreate returns the learner's in-progress session for the case, creating
// one when none exists; created reports which of the two happened.
// GetForUser yields common.ErrorNotFound for sessions owned by someone else.
// Complete only applies to sessions still in progress.
type Repository interface {
	GetOrCreate(ctx context.Context, userID, caseID string) (s *models.SimulationSession, created bool, err error)
	GetForUser(ctx context.Context, id, userID string) (*models.SimulationSession, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SimulationSession, error)
	Complete(ctx context.Context, id string, end time.Time) (*models.SimulationSession, error)
	AddMessage(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error)
	Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}
