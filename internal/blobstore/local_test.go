package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func testLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return l
}

func TestLocalPutOpenRoundTrip(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	key, err := l.Put(ctx, "avatar.png", strings.NewReader("fake png bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(key, "images/") {
		t.Fatalf("expected images/ key, got %q", key)
	}
	if !strings.HasSuffix(key, "_avatar.png") {
		t.Fatalf("expected key to keep the filename, got %q", key)
	}

	r, err := l.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestLocalKeysAreUnique(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	first, err := l.Put(ctx, "same.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := l.Put(ctx, "same.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first == second {
		t.Fatalf("two uploads of the same filename share key %q", first)
	}
}

func TestLocalSanitizesFilename(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	key, err := l.Put(ctx, "../../etc/pass wd.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if strings.Contains(key, "..") {
		t.Fatalf("key %q leaks path traversal", key)
	}
	if strings.Contains(key, " ") {
		t.Fatalf("key %q keeps whitespace", key)
	}

	if _, err := l.Open(ctx, key); err != nil {
		t.Fatalf("open sanitized key: %v", err)
	}
}

func TestLocalOpenMissing(t *testing.T) {
	l := testLocal(t)

	_, err := l.Open(context.Background(), "images/deadbeef_missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalOpenRejectsTraversal(t *testing.T) {
	l := testLocal(t)

	for _, key := range []string{"", "/etc/passwd", "../outside", "images/../../outside"} {
		if _, err := l.Open(context.Background(), key); err == nil || errors.Is(err, ErrNotFound) {
			t.Fatalf("Open(%q): expected a key validation error, got %v", key, err)
		}
	}
}

func TestLocalDelete(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	key, err := l.Put(ctx, "gone.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := l.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := l.Open(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := l.Delete(ctx, key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
