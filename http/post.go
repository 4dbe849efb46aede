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

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/posts", s.requireAuth(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}", s.handleGetPost).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleUpdatePost)).Methods("PATCH")
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
}

// postInput is the json body of create and edit requests. A present
// "group_id" key with a null value clears the group on edit.
type postInput struct {
	Text    *string `json:"text"`
	GroupID *int    `json:"group_id"`

	groupKeySet bool
}

func (in *postInput) UnmarshalJSON(data []byte) error {
	type alias postInput
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*in = postInput(a)
	_, in.groupKeySet = keys["group_id"]
	return nil
}

// postDetail is the response of "GET /posts/{id}": the post plus its
// comment thread, oldest first.
type postDetail struct {
	Post     *domain.Post     `json:"post"`
	Comments []domain.Comment `json:"comments"`
}

// handleCreatePost handles the route "POST /posts".
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post data."))
		return
	}

	post := domain.Post{
		AuthorID: auth.GetUser(r.Context()).ID,
		GroupID:  in.GroupID,
	}
	if in.Text != nil {
		post.Text = *in.Text
	}

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetPost handles the route "GET /posts/{id}".
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comments, err := s.cs.ByPostID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&postDetail{Post: post, Comments: comments}); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdatePost handles the route "PATCH /posts/{id}".
// Only the author may edit their post.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if post.AuthorID != auth.GetUser(r.Context()).ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to edit this post."))
		return
	}

	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post data."))
		return
	}
	upd := domain.PostUpdate{Text: in.Text}
	if in.groupKeySet {
		upd.GroupID = &in.GroupID
	}

	if err := s.ps.Update(post, &upd); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /posts/{id}".
// The author may delete their own post, an administrator any post.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := auth.GetUser(r.Context())
	if post.AuthorID != viewer.ID && !viewer.Admin {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to delete this post."))
		return
	}

	if err := s.ps.Delete(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Remove the post's stored image files after the record is gone.
	images, err := s.is.ByOwner(domain.OwnerTypePost, post.ID)
	if err != nil {
		errs.LogError(r, err)
	}
	for _, img := range images {
		if err := s.is.Delete(&img); err != nil {
			errs.LogError(r, err)
		}
	}

	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}
