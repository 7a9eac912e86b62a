package simulations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.SimulationSession
	messages map[string][]models.ChatMessage
	nextMsg  int64
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: map[string]*models.SimulationSession{},
		messages: map[string][]models.ChatMessage{},
		now:      time.Now,
	}
}

func cloneSession(s *models.SimulationSession) *models.SimulationSession {
	cp := *s
	if s.EndTime != nil {
		end := *s.EndTime
		cp.EndTime = &end
	}
	return &cp
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, userID, caseID string) (*models.SimulationSession, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.UserID == userID && s.CaseID == caseID && s.Status == models.SimulationInProgress {
			return cloneSession(s), false, nil
		}
	}

	s := &models.SimulationSession{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		UserID:    userID,
		Status:    models.SimulationInProgress,
		StartTime: r.now(),
	}
	r.sessions[s.ID] = s
	return cloneSession(s), true, nil
}

func (r *MemoryRepository) GetForUser(_ context.Context, id, userID string) (*models.SimulationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return cloneSession(s), nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.SimulationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.SimulationSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (r *MemoryRepository) Complete(_ context.Context, id string, end time.Time) (*models.SimulationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.Status != models.SimulationInProgress {
		return nil, common.ErrorNotFound
	}
	s.Status = models.SimulationCompleted
	s.EndTime = &end
	return cloneSession(s), nil
}

func (r *MemoryRepository) AddMessage(_ context.Context, m *models.ChatMessage) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[m.SessionID]; !ok {
		return nil, common.ErrorNotFound
	}
	r.nextMsg++
	stored := *m
	stored.ID = r.nextMsg
	stored.Timestamp = r.now()
	r.messages[m.SessionID] = append(r.messages[m.SessionID], stored)
	return &stored, nil
}

func (r *MemoryRepository) Messages(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]models.ChatMessage(nil), r.messages[sessionID]...), nil
}
