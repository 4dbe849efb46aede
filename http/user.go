package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/domain"
	"inkwell/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Provisioning hooks for the external identity provider.
	r.HandleFunc("/users", s.requireAdmin(s.handleCreateUser)).Methods("POST")
	r.HandleFunc("/users/{username}", s.requireAdmin(s.handleDeleteUser)).Methods("DELETE")
}

// handleCreateUser handles the route "POST /users". Admin only.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid user data."))
		return
	}

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteUser handles the route "DELETE /users/{username}". Admin
// only. Deleting a user takes their posts, comments and follow edges
// with them.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.us.Delete(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}
