package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestLoader() *Loader {
	return NewLoader(5*time.Second, zap.NewNop())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.txt")
	if err := os.WriteFile(path, []byte("Инфа о закупках"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := newTestLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "Инфа о закупках" {
		t.Errorf("Incorrect content, got %q", got)
	}
}

func TestLoad_FileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")

	_, err := newTestLoader().Load(context.Background(), path)
	if !errors.Is(err, ErrContentMissing) {
		t.Errorf("Expected ErrContentMissing, got %v", err)
	}
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote article"))
	}))
	defer srv.Close()

	got, err := newTestLoader().Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "remote article" {
		t.Errorf("Incorrect content, got %q", got)
	}
}

func TestLoad_URLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL)
	if !errors.Is(err, ErrContentMissing) {
		t.Errorf("Expected ErrContentMissing, got %v", err)
	}
}
