package client

import (
	"context"

	"github.com/dmitrijs2005/medcasegen/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email, redirectTo string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)

	ListCases(ctx context.Context) ([]models.CaseSummary, error)
	GetCase(ctx context.Context, id string) (*models.CaseDetail, error)
	StartSimulation(ctx context.Context, caseID string) (sim *models.Simulation, created bool, err error)
	ListSimulations(ctx context.Context) ([]models.Simulation, error)
	GetSimulation(ctx context.Context, id string) (*models.Simulation, error)
	SendMessage(ctx context.Context, simulationID, content string) (*models.ChatMessage, error)
	EndSimulation(ctx context.Context, id string) (*models.Simulation, error)
}
