package watcher

import "context"

// Watcher monitors the script inbox
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler receives the path of each new script file
type EventHandler func(ctx context.Context, filePath string) error
