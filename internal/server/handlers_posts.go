package server

import (
	"fmt"
	"net/http"

	"blogd/internal/api"
	"blogd/internal/store"
)

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
		return
	}

	if !s.parseUploadForm(w, r) {
		return
	}

	file, header, err := formFileOrNil(r, "image")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if file == nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("image is required"), ErrCodeMissingRequired))
		return
	}
	defer file.Close()

	imageKey, err := s.blobs.Put(r.Context(), header.Filename, file)
	if err != nil {
		s.writeServiceError(w, r, blobFailure(err))
		return
	}

	post, err := s.posts.Create(r.Context(), claims, PostCreateInput{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Author:   r.FormValue("author"),
		ImageKey: imageKey,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, api.PostResponse{Message: "post created", Post: *post})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
		return
	}

	posts, err := s.posts.ListByAuthor(r.Context(), claims.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	id, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if !s.parseUploadForm(w, r) {
		return
	}

	var update store.PostUpdate
	if r.MultipartForm != nil {
		if values := r.MultipartForm.Value["title"]; len(values) > 0 {
			update.Title = &values[0]
		}
		if values := r.MultipartForm.Value["content"]; len(values) > 0 {
			update.Content = &values[0]
		}
		if values := r.MultipartForm.Value["author"]; len(values) > 0 {
			update.Author = &values[0]
		}
	}

	file, header, err := formFileOrNil(r, "image")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if file != nil {
		defer file.Close()
		imageKey, err := s.blobs.Put(r.Context(), header.Filename, file)
		if err != nil {
			s.writeServiceError(w, r, blobFailure(err))
			return
		}
		update.ImageKey = &imageKey
	}

	post, err := s.posts.Update(r.Context(), claims, id, update)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.PostResponse{Message: "post updated", Post: *post})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	id, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.posts.Delete(r.Context(), claims, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: "post deleted"})
}

func (s *Server) handleAdminDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.posts.AdminDeletePost(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: "post deleted"})
}
