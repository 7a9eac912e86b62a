package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/dbx"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"
	// malformed uuid in a lookup
	invalidTextRepresentation = "22P02"
)

const caseColumns = `id, source_id, status, COALESCE(validated_by::text, ''), title, summary,
	learning_objectives, motif_consultation, age, sexe, etat_civil, profession, nombre_enfant,
	groupe_sanguin, mode_de_vie, patient_persona, initial_statement, clinical_data, created_at, updated_at`

// clinicalData is the JSONB column holding the detail lists.
type clinicalData struct {
	Symptoms         []models.Symptom         `json:"symptoms,omitempty"`
	History          []models.HistoryEntry    `json:"history,omitempty"`
	Treatments       []models.Treatment       `json:"current_treatments,omitempty"`
	Exams            []models.Exam            `json:"exams,omitempty"`
	PhysicalFindings []models.PhysicalFinding `json:"physical_findings,omitempty"`
	Diagnoses        []models.Diagnosis       `json:"diagnoses,omitempty"`
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.ClinicalCase) (*models.ClinicalCase, error) {
	data, err := json.Marshal(clinicalData{
		Symptoms:         c.Symptoms,
		History:          c.History,
		Treatments:       c.Treatments,
		Exams:            c.Exams,
		PhysicalFindings: c.PhysicalFindings,
		Diagnoses:        c.Diagnoses,
	})
	if err != nil {
		return nil, fmt.Errorf("encode clinical data: %w", err)
	}

	var lifestyle []byte
	if c.ModeDeVie != nil {
		if lifestyle, err = json.Marshal(c.ModeDeVie); err != nil {
			return nil, fmt.Errorf("encode mode de vie: %w", err)
		}
	}

	status := c.Status
	if status == "" {
		status = models.CaseNotApproved
	}

	query :=
		`INSERT INTO clinical_cases (source_id, status, title, summary, learning_objectives,
			motif_consultation, age, sexe, etat_civil, profession, nombre_enfant, groupe_sanguin,
			mode_de_vie, patient_persona, initial_statement, clinical_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`

	out := *c
	out.Status = status
	err = r.db.QueryRowContext(ctx, query,
		c.SourceID, status, c.Title, c.Summary, c.LearningObjectives,
		c.MotifConsultation, c.Age, c.Sexe, c.EtatCivil, c.Profession, c.NombreEnfant, c.GroupeSanguin,
		lifestyle, c.PatientPersona, c.InitialStatement, data,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.ClinicalCase, error) {
	c := &models.ClinicalCase{}
	var lifestyle, data []byte
	err := row.Scan(
		&c.ID, &c.SourceID, &c.Status, &c.ValidatedBy, &c.Title, &c.Summary,
		&c.LearningObjectives, &c.MotifConsultation, &c.Age, &c.Sexe, &c.EtatCivil, &c.Profession, &c.NombreEnfant,
		&c.GroupeSanguin, &lifestyle, &c.PatientPersona, &c.InitialStatement, &data, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(lifestyle) > 0 {
		if err := json.Unmarshal(lifestyle, &c.ModeDeVie); err != nil {
			return nil, fmt.Errorf("decode mode de vie: %w", err)
		}
	}
	var cd clinicalData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cd); err != nil {
			return nil, fmt.Errorf("decode clinical data: %w", err)
		}
	}
	c.Symptoms, c.History, c.Treatments = cd.Symptoms, cd.History, cd.Treatments
	c.Exams, c.PhysicalFindings, c.Diagnoses = cd.Exams, cd.PhysicalFindings, cd.Diagnoses
	return c, nil
}

func isBadID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ClinicalCase, error) {
	c, err := scanCase(r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM clinical_cases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isBadID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, status string) ([]*models.ClinicalCase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+caseColumns+` FROM clinical_cases
		 WHERE $1 = '' OR status = $1
		 ORDER BY created_at, id`, status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.ClinicalCase
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, status, validatedBy string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clinical_cases SET status = $1, validated_by = NULLIF($2, '')::uuid, updated_at = now()
		 WHERE id = $3`, status, validatedBy, id)
	if err != nil {
		if isBadID(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
