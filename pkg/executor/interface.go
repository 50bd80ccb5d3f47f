package executor

import "context"

// Executor runs external binaries such as the audio player
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
