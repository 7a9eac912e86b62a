package models

import "time"

// Simulation states. A learner has at most one session in progress per case.
const (
	SimulationInProgress = "in_progress"
	SimulationCompleted  = "completed"
	SimulationCanceled   = "canceled"
)

// Message senders.
const (
	SenderLearner = "APPRENANT"
	SenderPatient = "PATIENT_IA"
	SenderSystem  = "SYSTEM"
)

// SimulationSession links a learner to the case being practised.
type SimulationSession struct {
	ID        string
	CaseID    string
	UserID    string
	Status    string
	StartTime time.Time
	EndTime   *time.Time
}

type ChatMessage struct {
	ID        int64
	SessionID string
	Sender    string
	Content   string
	Timestamp time.Time
}
