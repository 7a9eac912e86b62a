package cases

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]*models.ClinicalCase
	bySource map[string]string
	order    []string
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     map[string]*models.ClinicalCase{},
		bySource: map[string]string{},
		now:      time.Now,
	}
}

// clone copies the case and its lists so callers cannot mutate stored state.
func clone(c *models.ClinicalCase) *models.ClinicalCase {
	cp := *c
	cp.Symptoms = append([]models.Symptom(nil), c.Symptoms...)
	cp.History = append([]models.HistoryEntry(nil), c.History...)
	cp.Treatments = append([]models.Treatment(nil), c.Treatments...)
	cp.Exams = append([]models.Exam(nil), c.Exams...)
	cp.PhysicalFindings = append([]models.PhysicalFinding(nil), c.PhysicalFindings...)
	cp.Diagnoses = append([]models.Diagnosis(nil), c.Diagnoses...)
	if c.ModeDeVie != nil {
		cp.ModeDeVie = make(map[string]any, len(c.ModeDeVie))
		for k, v := range c.ModeDeVie {
			cp.ModeDeVie[k] = v
		}
	}
	return &cp
}

func (r *MemoryRepository) Create(_ context.Context, c *models.ClinicalCase) (*models.ClinicalCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySource[c.SourceID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := clone(c)
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = models.CaseNotApproved
	}
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.byID[stored.ID] = stored
	r.bySource[stored.SourceID] = stored.ID
	r.order = append(r.order, stored.ID)
	return clone(stored), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.ClinicalCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(c), nil
}

func (r *MemoryRepository) List(_ context.Context, status string) ([]*models.ClinicalCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ClinicalCase, 0, len(r.order))
	for _, id := range r.order {
		c := r.byID[id]
		if status == "" || c.Status == status {
			out = append(out, clone(c))
		}
	}
	return out, nil
}

func (r *MemoryRepository) SetStatus(_ context.Context, id, status, validatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.Status = status
	c.ValidatedBy = validatedBy
	c.UpdatedAt = r.now()
	return nil
}
