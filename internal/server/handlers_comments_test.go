package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"blogd/internal/api"
)

func TestAddAndListComments(t *testing.T) {
	srv := newTestServer(t)

	registerTestUser(t, srv, "alice", "alice@example.com", "password123")
	registerTestUser(t, srv, "bob", "bob@example.com", "password123")
	aliceToken := loginTestUser(t, srv, "alice@example.com", "password123")
	bobToken := loginTestUser(t, srv, "bob@example.com", "password123")

	created := createTestPost(t, srv, aliceToken, "Discussable")

	// A fresh post has zero comments but listing them succeeds.
	w := doJSON(t, srv, http.MethodGet, "/v1/posts/"+created.Post.ID+"/comments", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var listed api.CommentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Comments == nil || len(listed.Comments) != 0 {
		t.Fatalf("expected empty comment array, got %+v", listed.Comments)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/posts/"+created.Post.ID+"/comments", bobToken, api.CommentCreateRequest{Comment: "nice one"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp api.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Post.Comments) != 1 {
		t.Fatalf("expected 1 comment on the returned post, got %d", len(resp.Post.Comments))
	}
	comment := resp.Post.Comments[0]
	if !strings.HasPrefix(comment.ID, "cm-") {
		t.Fatalf("unexpected comment id %q", comment.ID)
	}
	if comment.Text != "nice one" {
		t.Fatalf("unexpected comment text %q", comment.Text)
	}
	if comment.User.UserName != "bob" {
		t.Fatalf("expected commenter snapshot bob, got %+v", comment.User)
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/posts/"+created.Post.ID+"/comments", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Comments) != 1 || listed.Comments[0].Text != "nice one" {
		t.Fatalf("unexpected comments %+v", listed.Comments)
	}
}

func TestAddCommentValidation(t *testing.T) {
	srv := newTestServer(t)

	registerTestUser(t, srv, "alice", "alice@example.com", "password123")
	registerTestUser(t, srv, "bob", "bob@example.com", "password123")
	aliceToken := loginTestUser(t, srv, "alice@example.com", "password123")
	bobToken := loginTestUser(t, srv, "bob@example.com", "password123")

	created := createTestPost(t, srv, aliceToken, "Discussable")

	// Empty comment text.
	w := doJSON(t, srv, http.MethodPost, "/v1/posts/"+created.Post.ID+"/comments", bobToken, api.CommentCreateRequest{Comment: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty comment, got %d (%s)", w.Code, w.Body.String())
	}
	errResp := decodeErrorResponse(t, w)
	if errResp.ErrorCode != ErrCodeEmptyComment {
		t.Fatalf("expected error_code %d, got %d", ErrCodeEmptyComment, errResp.ErrorCode)
	}

	// Missing post.
	w = doJSON(t, srv, http.MethodPost, "/v1/posts/po-zzzz/comments", bobToken, api.CommentCreateRequest{Comment: "hello"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for absent post, got %d (%s)", w.Code, w.Body.String())
	}

	// No token.
	w = doJSON(t, srv, http.MethodPost, "/v1/posts/"+created.Post.ID+"/comments", "", api.CommentCreateRequest{Comment: "hello"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAdminCannotComment(t *testing.T) {
	srv := newTestServer(t)

	registerTestUser(t, srv, "alice", "alice@example.com", "password123")
	registerTestUser(t, srv, "root", "root@example.com", "password123")
	aliceToken := loginTestUser(t, srv, "alice@example.com", "password123")
	rootToken := adminToken(t, srv, "root@example.com", "password123")

	created := createTestPost(t, srv, aliceToken, "Discussable")

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/"+created.Post.ID+"/comments", rootToken, api.CommentCreateRequest{Comment: "admin speaking"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin comment, got %d (%s)", w.Code, w.Body.String())
	}
	errResp := decodeErrorResponse(t, w)
	if errResp.ErrorCode != ErrCodeForbidden {
		t.Fatalf("expected error_code %d, got %d", ErrCodeForbidden, errResp.ErrorCode)
	}
}

func TestAdminDeleteComment(t *testing.T) {
	srv := newTestServer(t)

	registerTestUser(t, srv, "alice", "alice@example.com", "password123")
	registerTestUser(t, srv, "bob", "bob@example.com", "password123")
	registerTestUser(t, srv, "root", "root@example.com", "password123")
	aliceToken := loginTestUser(t, srv, "alice@example.com", "password123")
	bobToken := loginTestUser(t, srv, "bob@example.com", "password123")
	rootToken := adminToken(t, srv, "root@example.com", "password123")

	created := createTestPost(t, srv, aliceToken, "Moderated")

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/"+created.Post.ID+"/comments", bobToken, api.CommentCreateRequest{Comment: "spam spam spam"})
	if w.Code != http.StatusOK {
		t.Fatalf("add comment: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp api.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	commentID := resp.Post.Comments[0].ID

	// Non-admins cannot use the moderation route.
	w = doJSON(t, srv, http.MethodDelete, "/v1/admin/posts/"+created.Post.ID+"/comments/"+commentID, bobToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodDelete, "/v1/admin/posts/"+created.Post.ID+"/comments/"+commentID, rootToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d (%s)", w.Code, w.Body.String())
	}

	// Deleting it again reports the comment, not the post, as missing.
	w = doJSON(t, srv, http.MethodDelete, "/v1/admin/posts/"+created.Post.ID+"/comments/"+commentID, rootToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
	errResp := decodeErrorResponse(t, w)
	if errResp.ErrorCode != ErrCodeCommentNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodeCommentNotFound, errResp.ErrorCode)
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/posts/"+created.Post.ID+"/comments", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var listed api.CommentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Comments) != 0 {
		t.Fatalf("expected no comments after moderation, got %+v", listed.Comments)
	}
}

// TestModerationFlow walks the register -> post -> comment -> moderate
// lifecycle end to end.
func TestModerationFlow(t *testing.T) {
	srv := newTestServer(t)

	registerTestUser(t, srv, "author", "author@example.com", "password123")
	registerTestUser(t, srv, "reader", "reader@example.com", "password123")
	registerTestUser(t, srv, "mod", "mod@example.com", "password123")
	authorToken := loginTestUser(t, srv, "author@example.com", "password123")
	readerToken := loginTestUser(t, srv, "reader@example.com", "password123")
	modToken := adminToken(t, srv, "mod@example.com", "password123")

	post := createTestPost(t, srv, authorToken, "Fresh post")

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/"+post.Post.ID+"/comments", readerToken, api.CommentCreateRequest{Comment: "first!"})
	if w.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var withComment api.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &withComment); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(withComment.Post.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(withComment.Post.Comments))
	}

	w = doJSON(t, srv, http.MethodDelete, "/v1/admin/posts/"+post.Post.ID+"/comments/"+withComment.Post.Comments[0].ID, modToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("moderate: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/posts/"+post.Post.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get post: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "first!") {
		t.Fatalf("moderated comment still visible: %s", w.Body.String())
	}
}
