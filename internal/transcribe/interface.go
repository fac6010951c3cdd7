package transcribe

import "context"

// Backend converts an audio file into plain text. format is the container
// hint (m4a, mp3, wav, ...) taken from the upload.
type Backend interface {
	Transcribe(ctx context.Context, audioPath, format string) (string, error)
}
