package api

import (
	"net/http"

	"github.com/alexanderramin/jobshop/internal/domain"
)

type createOperatorRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createMachineRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	ops, err := s.deps.Shop.ListOperators(r.Context(), r.URL.Query().Get("include_inactive") == "true")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]operatorDTO, 0, len(ops))
	for _, o := range ops {
		out = append(out, operatorDTO{ID: o.ID, Name: o.Name, Active: o.Active})
	}
	writeJSON(w, http.StatusOK, map[string]any{"operators": out})
}

func (s *Server) handleCreateOperator(w http.ResponseWriter, r *http.Request) {
	var req createOperatorRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	o := &domain.Operator{ID: req.ID, Name: req.Name, Active: true}
	if err := s.deps.Shop.CreateOperator(r.Context(), o); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, operatorDTO{ID: o.ID, Name: o.Name, Active: o.Active})
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := s.deps.Shop.ListMachines(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]machineDTO, 0, len(machines))
	for _, m := range machines {
		out = append(out, machineDTO{ID: m.ID, Name: m.Name, Kind: m.Kind})
	}
	writeJSON(w, http.StatusOK, map[string]any{"machines": out})
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	var req createMachineRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m := &domain.Machine{ID: req.ID, Name: req.Name, Kind: req.Kind}
	if err := s.deps.Shop.CreateMachine(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, machineDTO{ID: m.ID, Name: m.Name, Kind: m.Kind})
}
