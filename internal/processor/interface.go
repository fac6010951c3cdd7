package processor

import "context"

// Submission is one request to turn a lecture into a presentation. AudioPath,
// when set, is consumed (deleted) by the job.
type Submission struct {
	AudioPath   string
	AudioFormat string
	Transcript  string
	Notes       string
}

// Processor accepts jobs and runs each one in the background.
type Processor interface {
	// Submit allocates a join code and returns without waiting for the job.
	Submit(ctx context.Context, sub Submission) (string, error)
	// Ingest submits an audio file dropped into the inbox.
	Ingest(ctx context.Context, filePath string) error
	// Wait blocks until every submitted job has finished.
	Wait()
}

// Transcriber turns an audio file into text and removes the file. It never fails.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, format string) string
}
