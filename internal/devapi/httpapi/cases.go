package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/devapi/dataset"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/gorilla/mux"
)

const maxImportBytes = 16 << 20

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	list, err := s.cases.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]caseSummaryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, newCaseSummary(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": out})
}

func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataset.FromCase(c))
}

// exportCases answers with the cases of one review state as a downloadable
// dataset. Query parameters: format (json, jsonl, csv) and status.
func (s *Server) exportCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = dataset.FormatJSON
	}
	status := q.Get("status")
	if status == "" {
		status = models.CaseApproved
	}

	records, err := s.cases.Export(r.Context(), status)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, format, records); err != nil {
		if errors.Is(err, dataset.ErrUnknownFormat) {
			writeError(w, http.StatusBadRequest, "format inconnu : "+format)
			return
		}
		s.fail(w, r, err)
		return
	}

	name := fmt.Sprintf("dataset_%s_%s.%s", status, time.Now().Format("20060102_150405"), format)
	w.Header().Set("Content-Type", dataset.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) importCases(w http.ResponseWriter, r *http.Request) {
	records, err := dataset.Read(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadJSON, err))
		return
	}

	report, err := s.cases.Import(r.Context(), records)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": report.Imported, "skipped": report.Skipped})
}

type caseStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) setCaseStatus(w http.ResponseWriter, r *http.Request) {
	var req caseStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := s.cases.SetStatus(r.Context(), mux.Vars(r)["id"], req.Status, claimsFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataset.FromCase(c))
}
