package artifact

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Local stores artifacts as files in one directory.
type Local struct {
	dir string
}

// NewLocal creates dir if needed and returns a Local store rooted there.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(l.dir, name), nil
}

// Put writes data atomically via a temp file and rename.
func (l *Local) Put(_ context.Context, name, _ string, data []byte) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, Info, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, Info{}, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("open %s: %w", name, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Info{}, fmt.Errorf("stat %s: %w", name, err)
	}

	return f, Info{
		Name:        name,
		Size:        st.Size(),
		ContentType: contentTypeFor(name),
	}, nil
}


func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pptx":
		return ContentTypePPTX
	case ".docx":
		return ContentTypeDOCX
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
