package models

import "time"

// Message senders in a simulation chat.
const (
	SenderLearner = "APPRENANT"
	SenderPatient = "PATIENT_IA"
)

const SimulationInProgress = "in_progress"

// CaseSummary is an entry of GET /cases.
type CaseSummary struct {
	ID     string `json:"id"`
	Title  string `json:"case_title"`
	Status string `json:"status,omitempty"`
	Age    int    `json:"age,omitempty"`
	Sexe   string `json:"sexe,omitempty"`
}

// CaseDetail is the part of GET /cases/{id} shown to learners before a
// simulation. The clinical findings are left out on purpose.
type CaseDetail struct {
	ID                 string `json:"id"`
	Title              string `json:"case_title"`
	Summary            string `json:"case_summary,omitempty"`
	LearningObjectives string `json:"learning_objectives,omitempty"`
	MotifConsultation  string `json:"motif_consultation,omitempty"`
	Age                int    `json:"age,omitempty"`
	Sexe               string `json:"sexe,omitempty"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	Session   string    `json:"session"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Simulation struct {
	ID        string        `json:"id"`
	Case      CaseSummary   `json:"case"`
	Apprenant string        `json:"apprenant"`
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}
