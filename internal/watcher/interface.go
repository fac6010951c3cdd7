package watcher

import "context"

// Watcher turns audio files dropped into an inbox directory into jobs.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per new audio file.
type EventHandler func(ctx context.Context, filePath string) error
