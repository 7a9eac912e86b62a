package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/cases"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/simulations"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

const (
	msgCaseUnavailable = "Le cas clinique avec cet ID n'existe pas ou n'est pas approuvé."
	msgCaseIDRequired  = "Le champ 'case_id' est requis."
	msgContentRequired = "Le champ 'content' est requis."
	msgSessionClosed   = "Cette simulation est terminée."
)

// SimulationView is a session with its case and, when loaded, its messages.
type SimulationView struct {
	Session  *models.SimulationSession
	Case     *models.ClinicalCase
	Messages []models.ChatMessage
}

type SimulationService struct {
	sessions  simulations.Repository
	cases     cases.Repository
	responder PatientResponder
	logger    logging.Logger
	now       func() time.Time
}

func NewSimulationService(sessions simulations.Repository, cases cases.Repository, responder PatientResponder, logger logging.Logger) *SimulationService {
	return &SimulationService{
		sessions:  sessions,
		cases:     cases,
		responder: responder,
		logger:    logger,
		now:       time.Now,
	}
}

// Start resumes the learner's running session on the case or opens a new
// one; created is true for a new session.
func (s *SimulationService) Start(ctx context.Context, userID, caseID string) (*SimulationView, bool, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, false, validationError(msgCaseIDRequired)
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, validationError(msgCaseUnavailable)
		}
		return nil, false, err
	}
	if c.Status != models.CaseApproved {
		return nil, false, validationError(msgCaseUnavailable)
	}

	sess, created, err := s.sessions.GetOrCreate(ctx, userID, c.ID)
	if err != nil {
		return nil, false, err
	}
	msgs, err := s.sessions.Messages(ctx, sess.ID)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info(ctx, "simulation started", "session_id", sess.ID, "case_id", c.ID, "user_id", userID)
	}
	return &SimulationView{Session: sess, Case: c, Messages: msgs}, created, nil
}

func (s *SimulationService) List(ctx context.Context, userID string) ([]*SimulationView, error) {
	list, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*SimulationView, 0, len(list))
	for _, sess := range list {
		c, err := s.cases.GetByID(ctx, sess.CaseID)
		if err != nil {
			return nil, err
		}
		out = append(out, &SimulationView{Session: sess, Case: c})
	}
	return out, nil
}

// Get returns the session with its full chat log. Sessions of other users
// are reported as not found.
func (s *SimulationService) Get(ctx context.Context, id, userID string) (*SimulationView, error) {
	sess, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.cases.GetByID(ctx, sess.CaseID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.sessions.Messages(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return &SimulationView{Session: sess, Case: c, Messages: msgs}, nil
}

// PostMessage stores the learner's message and the patient's answer, and
// returns the answer.
func (s *SimulationService) PostMessage(ctx context.Context, id, userID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError(msgContentRequired)
	}

	sess, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SimulationInProgress {
		return nil, validationError(msgSessionClosed)
	}

	c, err := s.cases.GetByID(ctx, sess.CaseID)
	if err != nil {
		return nil, err
	}
	history, err := s.sessions.Messages(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.AddMessage(ctx, &models.ChatMessage{
		SessionID: sess.ID, Sender: models.SenderLearner, Content: content,
	}); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, c, history, content)
	if err != nil {
		s.logger.Error(ctx, "patient responder failed", "session_id", sess.ID, "error", err)
		return nil, fmt.Errorf("%w: patient responder: %v", common.ErrorInternal, err)
	}

	return s.sessions.AddMessage(ctx, &models.ChatMessage{
		SessionID: sess.ID, Sender: models.SenderPatient, Content: reply,
	})
}

// End closes a running session.
func (s *SimulationService) End(ctx context.Context, id, userID string) (*SimulationView, error) {
	sess, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SimulationInProgress {
		return nil, validationError(msgSessionClosed)
	}

	done, err := s.sessions.Complete(ctx, sess.ID, s.now())
	if err != nil {
		return nil, err
	}
	c, err := s.cases.GetByID(ctx, done.CaseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "simulation ended", "session_id", done.ID, "user_id", userID)
	return &SimulationView{Session: done, Case: c}, nil
}
