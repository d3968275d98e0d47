package api_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blogd/internal/api"
	"blogd/internal/auth"
	"blogd/internal/blobstore"
	"blogd/internal/server"
	"blogd/internal/store"
)

func newTestAPI(t *testing.T) *api.Client {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	blobs, err := blobstore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New("127.0.0.1:0", st, blobs, tokens, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return api.NewClient(ts.URL)
}

func TestClientFullLifecycle(t *testing.T) {
	client := newTestAPI(t)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	registered, err := client.Register(ctx, "alice", "alice@example.com", "password123", "alice.png", strings.NewReader("fake png"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.UserName != "alice" {
		t.Fatalf("unexpected user %+v", registered.User)
	}

	if _, err := client.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	me, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Fatalf("unexpected profile %+v", me)
	}

	created, err := client.CreatePost(ctx, "Hello", "World", "alice", "cover.jpg", strings.NewReader("fake jpg"))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.Post.Title != "Hello" {
		t.Fatalf("unexpected post %+v", created.Post)
	}

	posts, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	mine, err := client.MyPosts(ctx)
	if err != nil {
		t.Fatalf("my posts: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != created.Post.ID {
		t.Fatalf("unexpected own posts %+v", mine)
	}

	var img bytes.Buffer
	if err := client.GetImage(ctx, created.Post.ImageKey, &img); err != nil {
		t.Fatalf("get image: %v", err)
	}
	if img.String() != "fake jpg" {
		t.Fatalf("unexpected image bytes %q", img.String())
	}

	updated, err := client.UpdatePost(ctx, created.Post.ID, "Hello again", "", "", "", nil)
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Post.Title != "Hello again" {
		t.Fatalf("expected updated title, got %q", updated.Post.Title)
	}
	if updated.Post.Content != "World" {
		t.Fatalf("content should be untouched, got %q", updated.Post.Content)
	}

	commented, err := client.AddComment(ctx, created.Post.ID, "self comment")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(commented.Post.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(commented.Post.Comments))
	}

	comments, err := client.ListComments(ctx, created.Post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments.Comments) != 1 || comments.Comments[0].Text != "self comment" {
		t.Fatalf("unexpected comments %+v", comments.Comments)
	}

	if _, err := client.DeletePost(ctx, created.Post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if _, err := client.ListPosts(ctx); err == nil {
		t.Fatal("expected an error once every post is gone")
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	client := newTestAPI(t)
	ctx := context.Background()

	_, err := client.Login(ctx, "nobody@example.com", "password123")
	if err == nil {
		t.Fatal("expected login error")
	}
	if !strings.Contains(err.Error(), "not_found") {
		t.Fatalf("expected error code in message, got %q", err.Error())
	}

	// Unauthenticated writes are rejected.
	if _, err := client.CreatePost(ctx, "t", "c", "a", "x.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without a token")
	}
}
