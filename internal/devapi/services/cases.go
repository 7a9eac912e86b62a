package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/dataset"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/cases"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// ImportReport counts the records of an import. Records without a source
// id, with an unknown status or already imported are skipped.
type ImportReport struct {
	Imported int
	Skipped  int
}

type CaseService struct {
	cases  cases.Repository
	logger logging.Logger
}

func NewCaseService(repo cases.Repository, logger logging.Logger) *CaseService {
	return &CaseService{cases: repo, logger: logger}
}

// List returns the cases learners may practise on.
func (s *CaseService) List(ctx context.Context) ([]*models.ClinicalCase, error) {
	return s.cases.List(ctx, models.CaseApproved)
}

// Get returns an approved case; other cases are reported as not found.
func (s *CaseService) Get(ctx context.Context, id string) (*models.ClinicalCase, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CaseApproved {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (s *CaseService) Import(ctx context.Context, records []dataset.Record) (*ImportReport, error) {
	report := &ImportReport{}
	for _, rec := range records {
		c := rec.Case()
		if c.SourceID == "" {
			report.Skipped++
			continue
		}
		if c.Status == "" {
			c.Status = models.CaseNotApproved
		}
		if !models.ValidCaseStatus(c.Status) {
			s.logger.Warn(ctx, "skipping case with unknown status", "source_id", c.SourceID, "status", c.Status)
			report.Skipped++
			continue
		}

		if _, err := s.cases.Create(ctx, c); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("import case %s: %w", c.SourceID, err)
		}
		report.Imported++
	}

	s.logger.Info(ctx, "cases imported", "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

// Export returns the cases in the given review state, approved ones when
// status is empty.
func (s *CaseService) Export(ctx context.Context, status string) ([]dataset.Record, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		status = models.CaseApproved
	}
	if !models.ValidCaseStatus(status) {
		return nil, validationError("statut inconnu : " + status)
	}

	list, err := s.cases.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Record, 0, len(list))
	for _, c := range list {
		out = append(out, dataset.FromCase(c))
	}
	return out, nil
}

// SetStatus records a review decision taken by the administrator adminID.
func (s *CaseService) SetStatus(ctx context.Context, id, status, adminID string) (*models.ClinicalCase, error) {
	if !models.ValidCaseStatus(status) {
		return nil, validationError("statut inconnu : " + status)
	}
	if err := s.cases.SetStatus(ctx, id, status, adminID); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "case reviewed", "case_id", id, "status", status, "admin_id", adminID)
	return s.cases.GetByID(ctx, id)
}
