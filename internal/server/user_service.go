package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogd/internal/api"
	"blogd/internal/auth"
	"blogd/internal/models"
	"blogd/internal/store"
)

// UserService centralizes account validation, credential checks, and token
// issuance.
type UserService struct {
	store  *store.Store
	tokens *auth.TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(st *store.Store, tokens *auth.TokenIssuer) *UserService {
	return &UserService{store: st, tokens: tokens}
}

// RegisterInput carries a registration after the profile picture has been
// stored; ProfilePicKey points at the stored blob.
type RegisterInput struct {
	UserName      string
	Email         string
	Password      string
	ProfilePicKey string
}

// Register validates the input, hashes the password, and persists a new
// account. A duplicate email surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (api.UserResponse, error) {
	var resp api.UserResponse

	userName := strings.TrimSpace(input.UserName)
	if userName == "" {
		return resp, badRequestCode(fmt.Errorf("user_name is required"), ErrCodeMissingRequired)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := auth.ValidateEmail(email); err != nil {
		return resp, badRequestCode(err, ErrCodeInvalidEmail)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return resp, badRequestCode(err, ErrCodeWeakPassword)
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return resp, err
	}

	id, err := store.GenerateUserID(s.store.UserExists)
	if err != nil {
		return resp, storeFailure(err)
	}

	user := &models.User{
		ID:            id,
		UserName:      userName,
		Email:         email,
		PasswordHash:  passwordHash,
		ProfilePicKey: input.ProfilePicKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return resp, conflictCode(fmt.Errorf("email already registered"), ErrCodeEmailTaken)
		}
		return resp, storeFailure(err)
	}

	return api.NewUserResponse(user), nil
}

// Login checks credentials and returns a signed access token. An unknown
// email is a not-found, a wrong password an unauthorized; the handler uses
// the distinction only for the status code, both count as login failures.
func (s *UserService) Login(ctx context.Context, email, password string, now time.Time) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if password == "" {
		return "", badRequestCode(fmt.Errorf("email and password are required"), ErrCodeMissingRequired)
	}
	if err := auth.ValidateEmail(email); err != nil {
		return "", badRequestCode(err, ErrCodeInvalidEmail)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", storeFailure(err)
	}
	if user == nil {
		return "", notFoundCode(fmt.Errorf("no account with this email"), ErrCodeUserNotFound)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", unauthorized(fmt.Errorf("wrong password"))
	}

	token, err := s.tokens.Issue(user, now)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Profile loads the account behind a verified token.
func (s *UserService) Profile(ctx context.Context, userID string) (api.UserResponse, error) {
	var resp api.UserResponse

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if user == nil {
		return resp, notFoundCode(fmt.Errorf("user not found"), ErrCodeUserNotFound)
	}
	return api.NewUserResponse(user), nil
}
