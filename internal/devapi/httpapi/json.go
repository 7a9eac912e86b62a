package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/services"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Prenom        string `json:"prenom,omitempty"`
	Sexe          string `json:"sexe,omitempty"`
	DateNaissance string `json:"date_naissance,omitempty"`
	Telephone     string `json:"telephone,omitempty"`
	Ville         string `json:"ville,omitempty"`
	Adresse       string `json:"adresse,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Role          string `json:"role,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Prenom:        u.Prenom,
		Sexe:          u.Sexe,
		DateNaissance: u.DateNaissance,
		Telephone:     u.Telephone,
		Ville:         u.Ville,
		Adresse:       u.Adresse,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		Role:          u.Role,
		IsAdmin:       u.IsAdmin,
	}
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type authResponse struct {
	Session sessionResponse `json:"session"`
	User    userResponse    `json:"user"`
}

func newAuthResponse(s *services.Session, u *models.User) authResponse {
	return authResponse{
		Session: sessionResponse{AccessToken: s.AccessToken, TokenType: s.TokenType, ExpiresAt: s.ExpiresAt.Unix()},
		User:    newUserResponse(u),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

var errBadJSON = errors.New("malformed JSON body")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

type caseSummaryResponse struct {
	ID     string `json:"id"`
	Title  string `json:"case_title"`
	Status string `json:"status,omitempty"`
	Age    int    `json:"age,omitempty"`
	Sexe   string `json:"sexe,omitempty"`
}

func newCaseSummary(c *models.ClinicalCase) caseSummaryResponse {
	return caseSummaryResponse{ID: c.ID, Title: c.Title, Status: c.Status, Age: c.Age, Sexe: c.Sexe}
}

type chatMessageResponse struct {
	ID        int64     `json:"id"`
	Session   string    `json:"session"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func newChatMessage(m *models.ChatMessage) chatMessageResponse {
	return chatMessageResponse{ID: m.ID, Session: m.SessionID, Sender: m.Sender, Content: m.Content, Timestamp: m.Timestamp}
}

type simulationResponse struct {
	ID        string                `json:"id"`
	Case      caseSummaryResponse   `json:"case"`
	Apprenant string                `json:"apprenant"`
	Status    string                `json:"status"`
	StartTime time.Time             `json:"start_time"`
	EndTime   *time.Time            `json:"end_time"`
	Messages  []chatMessageResponse `json:"messages,omitempty"`
}

func newSimulationResponse(v *services.SimulationView) simulationResponse {
	res := simulationResponse{
		ID:        v.Session.ID,
		Apprenant: v.Session.UserID,
		Status:    v.Session.Status,
		StartTime: v.Session.StartTime,
		EndTime:   v.Session.EndTime,
	}
	if v.Case != nil {
		res.Case = newCaseSummary(v.Case)
	} else {
		res.Case = caseSummaryResponse{ID: v.Session.CaseID}
	}
	for i := range v.Messages {
		res.Messages = append(res.Messages, newChatMessage(&v.Messages[i]))
	}
	return res
}
