package api

import (
	"time"

	"blogd/internal/models"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// UserResponse is the external representation of a user. The password hash
// never appears here.
type UserResponse struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	Email         string    `json:"email"`
	IsAdmin       bool      `json:"is_admin"`
	ProfilePicKey string    `json:"profile_pic_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserResponse strips a user down to its external representation.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		UserName:      user.UserName,
		Email:         user.Email,
		IsAdmin:       user.IsAdmin,
		ProfilePicKey: user.ProfilePicKey,
		CreatedAt:     user.CreatedAt,
	}
}

// RegisterResponse confirms a registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginRequest is the credential payload for POST /v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed access token.
type LoginResponse struct {
	Access string `json:"access"`
}

// PostResponse wraps a post mutation result.
type PostResponse struct {
	Message string      `json:"message,omitempty"`
	Post    models.Post `json:"post"`
}

// CommentCreateRequest is the payload for commenting on a post.
type CommentCreateRequest struct {
	Comment string `json:"comment"`
}

// CommentsResponse lists a post's comments.
type CommentsResponse struct {
	Message  string           `json:"message"`
	Comments []models.Comment `json:"comments"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
