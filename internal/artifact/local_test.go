package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/slidecast/internal/config"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "outputs")
	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	name := PresentationName("123456")
	if name != "presentation_123456.pptx" {
		t.Fatalf("name = %q", name)
	}
	if err := store.Put(ctx, name, ContentTypePPTX, []byte("deck")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	for i := 0; i < 2; i++ {
		rc, info, err := store.Open(ctx, name)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != "deck" || info.Size != 4 || info.ContentType != ContentTypePPTX {
			t.Fatalf("read %q info %+v", data, info)
		}
	}
}

func TestLocalMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.Open(ctx, HandoutName("111111")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open err = %v, want ErrNotFound", err)
	}
}

func TestLocalDeletedAfterPut(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewLocal(dir)

	name := PresentationName("222222")
	if err := store.Put(ctx, name, ContentTypePPTX, []byte("deck")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Open(ctx, name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open err = %v, want ErrNotFound", err)
	}
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, _ := NewLocal(t.TempDir())
	for _, name := range []string{"../etc/passwd", "a/b.pptx", "", ".hidden"} {
		if err := store.Put(context.Background(), name, "", []byte("x")); err == nil {
			t.Errorf("Put(%q) succeeded, want error", name)
		}
	}
}

func TestNewSelectsLocal(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Backend: config.StorageLocal}, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := store.(*Local); !ok {
		t.Fatalf("store = %T, want *Local", store)
	}
	if _, err := New(context.Background(), config.StorageConfig{Backend: "s3"}, t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
