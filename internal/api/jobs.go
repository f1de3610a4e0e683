package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/repository"
)

type createJobRequest struct {
	Number     string  `json:"number"`
	Title      string  `json:"title"`
	Customer   string  `json:"customer"`
	Quantity   int     `json:"quantity"`
	OperatorID *string `json:"operator_id"`
	MachineID  *string `json:"machine_id"`
	// DueDate is a calendar date (2006-01-02) or an RFC3339 timestamp.
	DueDate string `json:"due_date"`
}

type assignJobRequest struct {
	OperatorID string  `json:"operator_id"`
	MachineID  *string `json:"machine_id"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.JobFilter{
		Status:     domain.JobStatus(q.Get("status")),
		OperatorID: q.Get("operator"),
	}
	if v := q.Get("include_completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, domain.NewValidationError("include_completed", "must be true or false"))
			return
		}
		filter.IncludeClosed = b
	}

	jobs, err := s.deps.Jobs.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": toJobDTOs(jobs)})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	j := &domain.Job{
		Number:             req.Number,
		Title:              req.Title,
		Customer:           req.Customer,
		Quantity:           req.Quantity,
		AssignedOperatorID: req.OperatorID,
		MachineID:          req.MachineID,
		DueDate:            due,
	}
	if err := s.deps.Jobs.Create(r.Context(), j); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobDTO(j))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.deps.Jobs.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(j))
}

func (s *Server) handleAssignJob(w http.ResponseWriter, r *http.Request) {
	var req assignJobRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.deps.Jobs.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err = s.deps.Jobs.Assign(r.Context(), j.ID, req.OperatorID, req.MachineID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(j))
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.deps.Jobs.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err = s.deps.Jobs.Cancel(r.Context(), j.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(j))
}

func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, domain.NewValidationError("due_date", "expected YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}
