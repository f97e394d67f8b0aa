package app

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"bookmart/pkg/domain"
	"bookmart/pkg/store"
	"bookmart/pkg/token"
)

// recordingBlobStore counts writes so tests can assert that rejected uploads
// never touch storage.
type recordingBlobStore struct {
	puts    int
	deletes map[string]bool
	keys    []string
}

func (r *recordingBlobStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	r.puts++
	r.keys = append(r.keys, key)
	_, _ = io.Copy(io.Discard, body)
	return "/files/" + key, nil
}

func (r *recordingBlobStore) Delete(_ context.Context, key string) (bool, error) {
	if r.deletes == nil {
		return false, nil
	}
	present := r.deletes[key]
	delete(r.deletes, key)
	return present, nil
}

func newUploadApp(t *testing.T, blobs *recordingBlobStore) *App {
	t.Helper()
	tokens, err := token.NewManager("test-secret", token.Options{TTL: time.Hour})
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	a, err := New(Config{Store: store.NewMemoryStore(), Tokens: tokens, Blobs: blobs})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestAcceptUploadHappyPath(t *testing.T) {
	blobs := &recordingBlobStore{}
	a := newUploadApp(t, blobs)

	got, err := a.AcceptUpload(context.Background(), "owner-1", domain.KindImage, "My Cover.PNG", 9, strings.NewReader("png-bytes"), "book-7")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.FileName != "My Cover.PNG" {
		t.Fatalf("original filename must be preserved, got %q", got.FileName)
	}
	if got.Size != 9 {
		t.Fatalf("unexpected size %d", got.Size)
	}
	if blobs.puts != 1 {
		t.Fatalf("expected exactly one write, got %d", blobs.puts)
	}
	key := blobs.keys[0]
	if !strings.HasPrefix(key, "images/book-7-") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected storage key %q", key)
	}
	if got.URL != "/files/"+key {
		t.Fatalf("url does not address the stored key: %q", got.URL)
	}
}

func TestAcceptUploadUniqueKeys(t *testing.T) {
	blobs := &recordingBlobStore{}
	a := newUploadApp(t, blobs)
	for i := 0; i < 5; i++ {
		if _, err := a.AcceptUpload(context.Background(), "owner-1", domain.KindImage, "cover.png", 4, strings.NewReader("data"), ""); err != nil {
			t.Fatalf("accept %d: %v", i, err)
		}
	}
	seen := make(map[string]bool)
	for _, key := range blobs.keys {
		if seen[key] {
			t.Fatalf("duplicate storage key %q", key)
		}
		seen[key] = true
	}
}

func TestAcceptUploadRejectsWithoutWriting(t *testing.T) {
	blobs := &recordingBlobStore{}
	a := newUploadApp(t, blobs)
	ctx := context.Background()

	cases := []struct {
		name string
		kind domain.FileKind
		file string
		size int64
	}{
		{"empty payload", domain.KindImage, "cover.png", 0},
		{"image over cap", domain.KindImage, "cover.png", (5 << 20) + 1},
		{"document over cap", domain.KindDocument, "book.pdf", (100 << 20) + 1},
		{"image with document extension", domain.KindImage, "book.pdf", 10},
		{"document with image extension", domain.KindDocument, "cover.png", 10},
		{"no extension", domain.KindDocument, "README", 10},
		{"unknown kind", domain.FileKind("archive"), "a.zip", 10},
	}
	for _, tc := range cases {
		_, err := a.AcceptUpload(ctx, "owner-1", tc.kind, tc.file, tc.size, strings.NewReader("x"), "")
		if !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if blobs.puts != 0 {
		t.Fatalf("rejected uploads wrote %d objects", blobs.puts)
	}
}

func TestDeleteUpload(t *testing.T) {
	blobs := &recordingBlobStore{deletes: map[string]bool{"images/owner-1-123-abcd.png": true}}
	a := newUploadApp(t, blobs)
	ctx := context.Background()

	ok, err := a.DeleteUpload(ctx, domain.KindImage, "owner-1-123-abcd.png")
	if err != nil || !ok {
		t.Fatalf("first delete: ok=%v err=%v", ok, err)
	}
	ok, err = a.DeleteUpload(ctx, domain.KindImage, "owner-1-123-abcd.png")
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if ok {
		t.Fatalf("second delete must report not found")
	}
}

func TestParseFileKind(t *testing.T) {
	if k, ok := ParseFileKind("Image"); !ok || k != domain.KindImage {
		t.Fatalf("parse image: %v %v", k, ok)
	}
	if k, ok := ParseFileKind("document"); !ok || k != domain.KindDocument {
		t.Fatalf("parse document: %v %v", k, ok)
	}
	if _, ok := ParseFileKind("video"); ok {
		t.Fatalf("unknown kind must not parse")
	}
}
