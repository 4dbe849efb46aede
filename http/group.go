package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/domain"
	"inkwell/errs"
)

func (s *Server) registerGroupRoutes(r *mux.Router) {
	r.HandleFunc("/groups", s.requireAdmin(s.handleCreateGroup)).Methods("POST")
	r.HandleFunc("/group/{slug}", s.requireAdmin(s.handleDeleteGroup)).Methods("DELETE")
}

// handleCreateGroup handles the route "POST /groups". Admin only.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var group domain.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid group data."))
		return
	}

	if err := s.gs.Create(&group); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&group); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteGroup handles the route "DELETE /group/{slug}". Admin
// only. The group's posts stay; they just lose their group reference.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.gs.BySlug(mux.Vars(r)["slug"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.gs.Delete(group); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(group); err != nil {
		errs.LogError(r, err)
	}
}
