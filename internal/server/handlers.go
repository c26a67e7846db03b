package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/ats-scorer/internal/analysis"
	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/ingestion"
)

// AnalyzeRequest represents the request body for /analyze
type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	JobTitle       string `json:"job_title,omitempty" validate:"max=200"`
	CompanyName    string `json:"company_name,omitempty" validate:"max=200"`
}

// handleAnalyze scores pasted résumé text against a job description
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeUpload scores an uploaded résumé document against a job description
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "resume", Message: "no resume file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read resume file")
		return
	}

	doc, err := ingestion.Extract(header.Filename, data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	flags := doc.Flags
	report, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		ResumeText:     doc.Text,
		JobDescription: formValue(r, "job_description", "jobDescription"),
		JobTitle:       formValue(r, "job_title", "jobTitle"),
		CompanyName:    formValue(r, "company_name", "companyName"),
		Flags:          &flags,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleGetAnalysis returns a stored report by ID
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID format")
		return
	}

	report, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.writeError(w, &ErrNotFound{Resource: "analysis", ID: idStr})
			return
		}
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleListAnalyses returns recent analysis summaries
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := db.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	summaries, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": summaries,
		"count":    len(summaries),
	})
}

// formValue returns the first non-empty form value among keys.
func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}
