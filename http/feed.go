package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/errs"
)

func (s *Server) registerFeedRoutes(r *mux.Router) {
	r.HandleFunc("/feed", s.handleGlobalFeed).Methods("GET")
	r.HandleFunc("/group/{slug}", s.handleGroupFeed).Methods("GET")
	r.HandleFunc("/profile/{username}", s.handleProfile).Methods("GET")
	r.HandleFunc("/follow", s.requireAuth(s.handleFollowingFeed)).Methods("GET")
}

// parsePage reads the optional ?page query parameter, defaulting to
// the first page.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Invalid page number %q.", raw)
	}
	return page, nil
}

// handleGlobalFeed handles the route "GET /feed".
// It returns the rendered global feed, served from the single-slot
// cache whenever it is filled.
func (s *Server) handleGlobalFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	rendered, err := s.feed.Global(page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if _, err := w.Write(rendered); err != nil {
		errs.LogError(r, err)
	}
}

// handleGroupFeed handles the route "GET /group/{slug}".
func (s *Server) handleGroupFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	resp, err := s.feed.Group(mux.Vars(r)["slug"], page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errs.LogError(r, err)
	}
}

// handleProfile handles the route "GET /profile/{username}".
// It returns the author, their follow counts and a page of their posts.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	resp, err := s.feed.Profile(mux.Vars(r)["username"], page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errs.LogError(r, err)
	}
}

// handleFollowingFeed handles the route "GET /follow".
// It returns the viewer's personalized feed, built from the authors
// they follow.
func (s *Server) handleFollowingFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := auth.GetUser(r.Context())
	resp, err := s.feed.Following(viewer.ID, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errs.LogError(r, err)
	}
}
