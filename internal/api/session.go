package api

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/tracker"
)

type clockInRequest struct {
	JobID string `json:"job_id"`
	Notes string `json:"notes"`
}

type breakRequest struct {
	Minutes int    `json:"minutes"`
	Reason  string `json:"reason"`
}

type clockOutRequest struct {
	Notes             string `json:"notes"`
	ProductivityScore int    `json:"productivity_score"`
}

type completeRequest struct {
	JobID             string `json:"job_id"`
	Notes             string `json:"notes"`
	ProductivityScore int    `json:"productivity_score"`
}

// knownOperator rejects session calls for operators that are not registered,
// so the tracker only ever holds sessions for real operators.
func (s *Server) knownOperator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Shop != nil {
			if _, err := s.deps.Shop.GetOperator(r.Context(), r.PathValue("op")); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) writeSession(w http.ResponseWriter, op string, status int) {
	writeJSON(w, status, toSessionDTO(s.deps.Tracker.Snapshot(op), s.deps.Tracker.ElapsedTime(op)))
}

// handleSession returns the operator's snapshot after a throttled refresh.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	if _, err := s.deps.Tracker.Refresh(r.Context(), op); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, op, http.StatusOK)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	refreshed, err := s.deps.Tracker.Refresh(r.Context(), op)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := s.deps.Tracker.Snapshot(op)
	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed": refreshed,
		"session":   toSessionDTO(snap, s.deps.Tracker.ElapsedTime(op)),
	})
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	var req clockInRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	jobID, err := s.resolveJobID(r, req.JobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.deps.Tracker.StartJob(r.Context(), op, jobID, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

func (s *Server) handleBreak(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	var req breakRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.deps.Tracker.AddBreak(r.Context(), op, req.Minutes, req.Reason)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	if op == "" {
		s.writeError(w, r, domain.NewValidationError("operator", "operator is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": s.deps.Tracker.TogglePause(op)})
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	var req clockOutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Tracker.CompleteOrClockOut(r.Context(), op, "", req.Notes, req.ProductivityScore)
	s.writeCompletion(w, r, res, err)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	var req completeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.JobID == "" {
		s.writeError(w, r, domain.NewValidationError("job_id", "job is required"))
		return
	}
	jobID, err := s.resolveJobID(r, req.JobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Tracker.CompleteOrClockOut(r.Context(), op, jobID, req.Notes, req.ProductivityScore)
	s.writeCompletion(w, r, res, err)
}

// writeCompletion answers 207 with the closed entry when only the job
// status update failed, so the client knows the clock-out is done.
func (s *Server) writeCompletion(w http.ResponseWriter, r *http.Request, res *tracker.Completion, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrPartialFailure) && res != nil {
			body := toCompletionDTO(res)
			body.Error = err.Error()
			s.logger.WarnContext(r.Context(), "partial completion", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusMultiStatus, body)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionDTO(res))
}

func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	if _, err := s.deps.Tracker.Refresh(r.Context(), op); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(s.deps.Tracker.TodaysStatistics(op)))
}

// resolveJobID accepts a job ID or a job sheet number.
func (s *Server) resolveJobID(r *http.Request, ref string) (string, error) {
	if ref == "" {
		return "", domain.NewValidationError("job_id", "job is required")
	}
	j, err := s.deps.Jobs.Resolve(r.Context(), ref)
	if err != nil {
		return "", err
	}
	return j.ID, nil
}
