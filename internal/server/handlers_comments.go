package server

import (
	"fmt"
	"net/http"

	"blogd/internal/api"
)

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
		return
	}

	postID, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var req api.CommentCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if _, err := s.posts.AddComment(r.Context(), claims, postID, req.Comment); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	post, err := s.posts.Get(r.Context(), postID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.PostResponse{Message: "comment added", Post: *post})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}

	comments, err := s.posts.ListComments(r.Context(), postID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.CommentsResponse{Message: "comments fetched", Comments: comments})
}

func (s *Server) handleAdminDeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := s.postIDOrBadRequest(w, r)
	if !ok {
		return
	}
	commentID, ok := s.commentIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.posts.AdminDeleteComment(r.Context(), postID, commentID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: "comment deleted"})
}
