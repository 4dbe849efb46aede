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

func (s *Server) registerImageRoutes(r *mux.Router) {
	r.HandleFunc("/posts/{id:[0-9]+}/image", s.requireAuth(s.handleUploadPostImage)).Methods("POST")
}

// handleUploadPostImage handles the route "POST /posts/{id}/image".
// It stores the uploaded file in the media store and persists the
// returned reference on the post. Author only.
func (s *Server) handleUploadPostImage(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid upload data."))
		return
	}
	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "An image file is required."))
		return
	}
	defer file.Close()

	img := &domain.Image{
		OwnerType: domain.OwnerTypePost,
		OwnerID:   id,
		File:      file,
		Filename:  fileHeader.Filename,
	}
	if err := s.is.Create(img); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	ref := img.URL
	if err := s.ps.Update(post, &domain.PostUpdate{Image: &ref}); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}
