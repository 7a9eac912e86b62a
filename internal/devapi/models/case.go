package models

import "time"

// Review states of a clinical case. Only approved cases are served to
// learners.
const (
	CaseNotApproved = "non_approuve"
	CaseApproved    = "approuve"
	CaseRejected    = "rejete"
)

// Kinds of history entries.
const (
	HistoryMedical     = "medical"
	HistorySurgical    = "chirurgical"
	HistoryObstetrical = "obstetrical"
	HistoryFamily      = "familial"
	HistoryAllergy     = "allergie"
)

// ValidCaseStatus reports whether s is one of the review states.
func ValidCaseStatus(s string) bool {
	switch s {
	case CaseNotApproved, CaseApproved, CaseRejected:
		return true
	}
	return false
}

// ValidHistoryType reports whether t is one of the history kinds.
func ValidHistoryType(t string) bool {
	switch t {
	case HistoryMedical, HistorySurgical, HistoryObstetrical, HistoryFamily, HistoryAllergy:
		return true
	}
	return false
}

// The detail records below are stored as JSON next to the case and travel
// unchanged in datasets and API answers, hence the tags.

type Symptom struct {
	Nom                  string `json:"nom"`
	Localisation         string `json:"localisation,omitempty"`
	DateDebut            string `json:"date_debut,omitempty"`
	Frequence            string `json:"frequence,omitempty"`
	Duree                string `json:"duree,omitempty"`
	Evolution            string `json:"evolution,omitempty"`
	ActiviteDeclenchante string `json:"activite_declenchante,omitempty"`
	Degre                int    `json:"degre,omitempty"`
}

type HistoryEntry struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Treatment struct {
	Nom        string `json:"nom"`
	Posologie  string `json:"posologie,omitempty"`
	DateDebut  string `json:"date_debut,omitempty"`
	Efficacite string `json:"efficacite,omitempty"`
}

type Exam struct {
	Nom      string `json:"nom"`
	Resultat string `json:"resultat"`
}

type PhysicalFinding struct {
	NomExamen           string `json:"nom_examen"`
	ResultatObservation string `json:"resultat_observation"`
}

type Diagnosis struct {
	Description string `json:"description"`
	IsFinal     bool   `json:"is_final"`
}

// ClinicalCase is a teaching case built from an anonymised patient record.
// SourceID identifies the record in the hospital system it was imported
// from and is unique.
type ClinicalCase struct {
	ID          string
	SourceID    string
	Status      string
	ValidatedBy string

	Title              string
	Summary            string
	LearningObjectives string

	MotifConsultation string
	Age               int
	Sexe              string
	EtatCivil         string
	Profession        string
	NombreEnfant      int
	GroupeSanguin     string
	ModeDeVie         map[string]any

	// PatientPersona and InitialStatement drive the simulated patient.
	PatientPersona   string
	InitialStatement string

	Symptoms         []Symptom
	History          []HistoryEntry
	Treatments       []Treatment
	Exams            []Exam
	PhysicalFindings []PhysicalFinding
	Diagnoses        []Diagnosis

	CreatedAt time.Time
	UpdatedAt time.Time
}
