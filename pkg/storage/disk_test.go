package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStorePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/files/")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	url, err := s.Put(context.Background(), "images/cover.png", strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/files/images/cover.png" {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "images", "cover.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}

	ok, err := s.Delete(context.Background(), "images/cover.png")
	if err != nil || !ok {
		t.Fatalf("first delete: ok=%v err=%v", ok, err)
	}
	ok, err = s.Delete(context.Background(), "images/cover.png")
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if ok {
		t.Fatalf("second delete must report not found")
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/files")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	if _, err := s.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain"); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if _, err := s.Delete(context.Background(), "../escape.txt"); err == nil {
		t.Fatalf("expected traversal key to be rejected on delete")
	}
}
