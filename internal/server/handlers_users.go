package server

import (
	"fmt"
	"net/http"
	"time"

	"blogd/internal/api"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploadForm(w, r) {
		return
	}

	file, header, err := formFileOrNil(r, "profile_pic")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if file == nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("profile_pic is required"), ErrCodeMissingRequired))
		return
	}
	defer file.Close()

	// The picture is stored before the account row exists; a failed
	// registration leaves the blob behind.
	picKey, err := s.blobs.Put(r.Context(), header.Filename, file)
	if err != nil {
		s.writeServiceError(w, r, blobFailure(err))
		return
	}

	user, err := s.users.Register(r.Context(), RegisterInput{
		UserName:      r.FormValue("user_name"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		ProfilePicKey: picKey,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, api.RegisterResponse{Message: "user registered", User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	now := time.Now()
	attemptKey := loginAttemptKey(req.Email, r)
	if !s.loginLimiter.Allow(attemptKey, now) {
		err := makeAPIError(http.StatusTooManyRequests, "resource_exhausted", ErrCodeResourceExhausted,
			fmt.Errorf("too many login attempts, try again later"))
		s.writeServiceError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password, now)
	if err != nil {
		switch httpStatusFromError(err) {
		case http.StatusNotFound, http.StatusUnauthorized:
			s.loginLimiter.RegisterFailure(attemptKey, now)
		}
		s.writeServiceError(w, r, err)
		return
	}
	s.loginLimiter.Reset(attemptKey)

	s.writeJSON(w, http.StatusOK, api.LoginResponse{Access: token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
		return
	}

	user, err := s.users.Profile(r.Context(), claims.Subject)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}
