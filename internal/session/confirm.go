package session

import "context"

// ConfirmRequest asks the operator a yes/no question about overwriting Path.
// Exactly one answer must be sent on Reply.
type ConfirmRequest struct {
	Path  string
	Reply chan<- bool
}

// ChannelConfirmer forwards overwrite questions from the publish worker to
// whoever reads Requests, and waits for the answer.
type ChannelConfirmer struct {
	requests chan ConfirmRequest
}

func NewChannelConfirmer() *ChannelConfirmer {
	return &ChannelConfirmer{requests: make(chan ConfirmRequest)}
}

// Requests is read by the interactive surface.
func (c *ChannelConfirmer) Requests() <-chan ConfirmRequest {
	return c.requests
}

// ConfirmOverwrite blocks until the operator answers. A cancelled context counts as no.
func (c *ChannelConfirmer) ConfirmOverwrite(ctx context.Context, remotePath string) bool {
	reply := make(chan bool, 1)
	select {
	case c.requests <- ConfirmRequest{Path: remotePath, Reply: reply}:
	case <-ctx.Done():
		return false
	}

	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}
