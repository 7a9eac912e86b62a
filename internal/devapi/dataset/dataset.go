// Package dataset reads and writes clinical cases as portable files: a JSON
// array, JSON lines, or a flattened CSV for spreadsheets. The JSON shapes are
// also the wire format of case details.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
)

// Export formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

var ErrUnknownFormat = errors.New("unknown dataset format")

// Record is one clinical case in a dataset.
type Record struct {
	ID                 string                   `json:"id,omitempty"`
	SourceID           string                   `json:"source_id"`
	Status             string                   `json:"status,omitempty"`
	Title              string                   `json:"case_title"`
	Summary            string                   `json:"case_summary"`
	LearningObjectives string                   `json:"learning_objectives"`
	MotifConsultation  string                   `json:"motif_consultation"`
	Age                int                      `json:"age"`
	Sexe               string                   `json:"sexe"`
	EtatCivil          string                   `json:"etat_civil,omitempty"`
	Profession         string                   `json:"profession,omitempty"`
	NombreEnfant       int                      `json:"nombre_enfant,omitempty"`
	GroupeSanguin      string                   `json:"groupe_sanguin,omitempty"`
	ModeDeVie          map[string]any           `json:"mode_de_vie,omitempty"`
	PatientPersona     string                   `json:"patient_persona,omitempty"`
	InitialStatement   string                   `json:"initial_statement,omitempty"`
	Symptoms           []models.Symptom         `json:"symptoms"`
	History            []models.HistoryEntry    `json:"history"`
	Treatments         []models.Treatment       `json:"current_treatments"`
	Exams              []models.Exam            `json:"exams"`
	PhysicalFindings   []models.PhysicalFinding `json:"physical_findings"`
	Diagnoses          []models.Diagnosis       `json:"diagnoses"`
}

func FromCase(c *models.ClinicalCase) Record {
	return Record{
		ID:                 c.ID,
		SourceID:           c.SourceID,
		Status:             c.Status,
		Title:              c.Title,
		Summary:            c.Summary,
		LearningObjectives: c.LearningObjectives,
		MotifConsultation:  c.MotifConsultation,
		Age:                c.Age,
		Sexe:               c.Sexe,
		EtatCivil:          c.EtatCivil,
		Profession:         c.Profession,
		NombreEnfant:       c.NombreEnfant,
		GroupeSanguin:      c.GroupeSanguin,
		ModeDeVie:          c.ModeDeVie,
		PatientPersona:     c.PatientPersona,
		InitialStatement:   c.InitialStatement,
		Symptoms:           nonNil(c.Symptoms),
		History:            nonNil(c.History),
		Treatments:         nonNil(c.Treatments),
		Exams:              nonNil(c.Exams),
		PhysicalFindings:   nonNil(c.PhysicalFindings),
		Diagnoses:          nonNil(c.Diagnoses),
	}
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Case converts r back into a case. ID is left to the repository.
func (r Record) Case() *models.ClinicalCase {
	return &models.ClinicalCase{
		SourceID:           strings.TrimSpace(r.SourceID),
		Status:             r.Status,
		Title:              r.Title,
		Summary:            r.Summary,
		LearningObjectives: r.LearningObjectives,
		MotifConsultation:  r.MotifConsultation,
		Age:                r.Age,
		Sexe:               r.Sexe,
		EtatCivil:          r.EtatCivil,
		Profession:         r.Profession,
		NombreEnfant:       r.NombreEnfant,
		GroupeSanguin:      r.GroupeSanguin,
		ModeDeVie:          r.ModeDeVie,
		PatientPersona:     r.PatientPersona,
		InitialStatement:   r.InitialStatement,
		Symptoms:           r.Symptoms,
		History:            r.History,
		Treatments:         r.Treatments,
		Exams:              r.Exams,
		PhysicalFindings:   r.PhysicalFindings,
		Diagnoses:          r.Diagnoses,
	}
}

// Read decodes a JSON array or JSON lines; the first non-blank byte decides.
func Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if !isSpace(b[0]) {
			break
		}
		_, _ = br.ReadByte()
	}

	dec := json.NewDecoder(br)
	if b, _ := br.Peek(1); b[0] == '[' {
		var records []Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
		return records, nil
	}

	var records []Record
	for line := 1; ; line++ {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode dataset record %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Write encodes records in format.
func Write(w io.Writer, format string, records []Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(nonNil(records))
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		return writeCSV(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ContentType is the media type of format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

var csvHeader = []string{
	"id", "case_title", "case_summary", "age", "sexe",
	"symptoms_list", "medical_history_json", "diagnoses_list",
}

// writeCSV flattens the lists: symptom names and diagnoses joined by " | ",
// history as a JSON array.
func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		symptoms := make([]string, 0, len(r.Symptoms))
		for _, s := range r.Symptoms {
			symptoms = append(symptoms, s.Nom)
		}
		diagnoses := make([]string, 0, len(r.Diagnoses))
		for _, d := range r.Diagnoses {
			diagnoses = append(diagnoses, d.Description)
		}

		history := ""
		if len(r.History) > 0 {
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			if err := enc.Encode(r.History); err != nil {
				return err
			}
			history = strings.TrimSpace(buf.String())
		}

		if err := cw.Write([]string{
			r.ID, r.Title, r.Summary, strconv.Itoa(r.Age), r.Sexe,
			strings.Join(symptoms, " | "), history, strings.Join(diagnoses, " | "),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
