package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Users. Registration and login are public.
	mux.HandleFunc("POST /v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /v1/users/login", s.handleLogin)
	mux.HandleFunc("GET /v1/users/me", s.requireAuth(s.handleProfile))

	// Images, addressed by blob key.
	mux.HandleFunc("GET /v1/images/{key...}", s.handleGetImage)

	// Posts. Listing and detail reads are public.
	mux.HandleFunc("POST /v1/posts", s.requireAuth(s.handleCreatePost))
	mux.HandleFunc("GET /v1/posts", s.handleListPosts)
	mux.HandleFunc("GET /v1/posts/mine", s.requireAuth(s.handleMyPosts))
	mux.HandleFunc("GET /v1/posts/{id}", s.handleGetPost)
	mux.HandleFunc("PATCH /v1/posts/{id}", s.requireAuth(s.handleUpdatePost))
	mux.HandleFunc("DELETE /v1/posts/{id}", s.requireAuth(s.handleDeletePost))

	// Comments.
	mux.HandleFunc("POST /v1/posts/{id}/comments", s.requireAuth(s.handleAddComment))
	mux.HandleFunc("GET /v1/posts/{id}/comments", s.requireAuth(s.handleListComments))

	// Admin.
	mux.HandleFunc("DELETE /v1/admin/posts/{id}", s.requireAdmin(s.handleAdminDeletePost))
	mux.HandleFunc("DELETE /v1/admin/posts/{id}/comments/{commentId}", s.requireAdmin(s.handleAdminDeleteComment))

	return s.withRequestLogging(mux)
}
