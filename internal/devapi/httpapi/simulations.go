package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/gorilla/mux"
)

const msgSessionNotFound = "Session non trouvée ou non autorisée."

// failSession reports a missing or foreign session with its own message.
func (s *Server) failSession(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	s.fail(w, r, err)
}

func (s *Server) listSimulations(w http.ResponseWriter, r *http.Request) {
	list, err := s.sims.List(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]simulationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, newSimulationResponse(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"simulations": out})
}

type startSimulationRequest struct {
	CaseID string `json:"case_id"`
}

// startSimulation answers 201 for a new session and 200 when the learner's
// running session on the case is resumed.
func (s *Server) startSimulation(w http.ResponseWriter, r *http.Request) {
	var req startSimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	view, created, err := s.sims.Start(r.Context(), claimsFrom(r.Context()).UserID, req.CaseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, newSimulationResponse(view))
}

func (s *Server) getSimulation(w http.ResponseWriter, r *http.Request) {
	view, err := s.sims.Get(r.Context(), mux.Vars(r)["id"], claimsFrom(r.Context()).UserID)
	if err != nil {
		s.failSession(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSimulationResponse(view))
}

type messageRequest struct {
	Content string `json:"content"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	reply, err := s.sims.PostMessage(r.Context(), mux.Vars(r)["id"], claimsFrom(r.Context()).UserID, req.Content)
	if err != nil {
		s.failSession(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newChatMessage(reply))
}

func (s *Server) endSimulation(w http.ResponseWriter, r *http.Request) {
	view, err := s.sims.End(r.Context(), mux.Vars(r)["id"], claimsFrom(r.Context()).UserID)
	if err != nil {
		s.failSession(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSimulationResponse(view))
}
