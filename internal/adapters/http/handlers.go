package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spigell/assessor/internal/domain"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Email       string        `json:"email"`
	CandidateID string        `json:"candidate_id"`
	Name        string        `json:"name"`
	Status      domain.Status `json:"status"`
	Message     string        `json:"message"`
}

type submitRequest struct {
	QuestionSetID string                     `json:"question_set_id"`
	Questions     []domain.SubmittedQuestion `json:"questions"`
	Answers       []string                   `json:"answers"`
	Languages     []string                   `json:"languages"`
	DurationUsed  *int                       `json:"duration_used"`
	CandidateID   *string                    `json:"candidate_id"`
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: email %q is not valid", domain.ErrValidation, email)
	}
	return email, nil
}

func (s *Server) candidateLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	email, err := validEmail(req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.provisioning.Provision(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Email:       rec.Email,
		CandidateID: rec.CandidateID,
		Name:        rec.Name,
		Status:      rec.Status,
		Message:     "Login successful",
	})
}

func (s *Server) candidateDetails(w http.ResponseWriter, r *http.Request) {
	rec, err := s.provisioning.Details(r.Context(), chi.URLParam(r, "candidate_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Detail: "Candidate not found"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) candidateResults(w http.ResponseWriter, r *http.Request) {
	rec, err := s.provisioning.Details(r.Context(), chi.URLParam(r, "candidate_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Detail: "No test results found for this candidate"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) fetchTest(w http.ResponseWriter, r *http.Request) {
	delivery, err := s.delivery.Fetch(r.Context(), chi.URLParam(r, "set_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

func (s *Server) submitTest(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	setID, err := uuid.Parse(strings.TrimSpace(req.QuestionSetID))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: question_set_id must be a UUID", domain.ErrValidation))
		return
	}
	if req.Questions == nil || req.Answers == nil {
		s.writeError(w, r, fmt.Errorf("%w: questions and answers are required", domain.ErrValidation))
		return
	}

	sub := domain.Submission{
		QuestionSetID: setID.String(),
		Questions:     req.Questions,
		Answers:       req.Answers,
		Languages:     req.Languages,
		DurationUsed:  req.DurationUsed,
	}
	if req.CandidateID != nil {
		sub.CandidateID = *req.CandidateID
	}

	result, err := s.submission.Reconcile(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) debugLookup(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	email, err := validEmail(req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	inspection, err := s.opts.Inspector.Inspect(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}
