package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/errs"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/profile/{username}/follow", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/profile/{username}/follow", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

// followResponse reports the follower's edge count after the
// operation, for observability.
type followResponse struct {
	Following int `json:"following"`
}

// handleCreateFollow handles the route "POST /profile/{username}/follow".
// Following yourself or someone you already follow is a no-op.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	followed, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	follower := auth.GetUser(r.Context())
	count, err := s.fs.Follow(follower.ID, followed.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&followResponse{Following: count}); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteFollow handles the route "DELETE /profile/{username}/follow".
// Unfollowing someone you don't follow is a no-op.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	followed, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	follower := auth.GetUser(r.Context())
	if err := s.fs.Unfollow(follower.ID, followed.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	count, err := s.fs.CountFollowing(follower.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(&followResponse{Following: count}); err != nil {
		errs.LogError(r, err)
	}
}
