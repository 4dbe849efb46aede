package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/domain"
	"inkwell/errs"
)

func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/posts/{id:[0-9]+}/comments", s.requireAuth(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/comments", s.handleGetComments).Methods("GET")
}

// handleCreateComment handles the route "POST /posts/{id}/comments".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid comment data."))
		return
	}
	comment.PostID = id
	comment.AuthorID = auth.GetUser(r.Context()).ID

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetComments handles the route "GET /posts/{id}/comments".
// The thread comes back oldest first.
func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	comments, err := s.cs.ByPostID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(comments); err != nil {
		errs.LogError(r, err)
	}
}
