package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"blogd/internal/auth"
)

func TestCreateRequiresCompleteIdentity(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	input := PostCreateInput{
		Title:    "Title",
		Content:  "Content",
		Author:   "Byline",
		ImageKey: "images/cover.jpg",
	}

	cases := []struct {
		name   string
		claims *auth.Claims
	}{
		{"nil claims", nil},
		{"missing subject", &auth.Claims{UserName: "alice", ProfilePicKey: "images/a.png"}},
		{"missing user name", &auth.Claims{
			ProfilePicKey:    "images/a.png",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "us-ab12"},
		}},
		{"missing profile pic key", &auth.Claims{
			UserName:         "alice",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "us-ab12"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post, err := srv.posts.Create(ctx, tc.claims, input)
			if err == nil {
				t.Fatalf("expected an error, got post %+v", post)
			}
			if status := httpStatusFromError(err); status != http.StatusBadRequest && status != http.StatusUnauthorized {
				t.Fatalf("expected a 400-class rejection, got %d", status)
			}
		})
	}

	complete := &auth.Claims{
		UserName:         "alice",
		ProfilePicKey:    "images/a.png",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "us-ab12"},
	}
	post, err := srv.posts.Create(ctx, complete, input)
	if err != nil {
		t.Fatalf("complete identity: %v", err)
	}
	if post.User.ProfilePicKey != "images/a.png" {
		t.Fatalf("expected snapshot pic key, got %q", post.User.ProfilePicKey)
	}
}

func TestAddCommentRequiresCompleteIdentity(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	registerTestUser(t, srv, "alice", "alice@example.com", "password123")
	token := loginTestUser(t, srv, "alice@example.com", "password123")
	created := createTestPost(t, srv, token, "Discussable")

	noPic := &auth.Claims{
		UserName:         "bob",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "us-cd34"},
	}
	if _, err := srv.posts.AddComment(ctx, noPic, created.Post.ID, "hello"); err == nil {
		t.Fatal("expected a rejection for an identity without a profile pic key")
	}
}
