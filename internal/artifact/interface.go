package artifact

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object is absent from the store.
var ErrNotFound = errors.New("artifact not found")

// Info describes a stored object.
type Info struct {
	Name        string
	Size        int64
	ContentType string
}

// Store persists generated artifacts under deterministic names.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
}

// Content types served to the presentation host.
const (
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// PresentationName is the object name for a job's generated deck.
func PresentationName(code string) string {
	return "presentation_" + code + ".pptx"
}

// HandoutName is the object name for a job's speaker handout.
func HandoutName(code string) string {
	return "handout_" + code + ".docx"
}
