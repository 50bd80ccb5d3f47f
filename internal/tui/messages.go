package tui

import (
	"github.com/nguyentantai21042004/slide-narrator/internal/pipeline"
	"github.com/nguyentantai21042004/slide-narrator/internal/session"
)

// Message types for tea.Cmd async operations

// scriptLoadedMsg carries a script dropped into the inbox
type scriptLoadedMsg struct {
	path string
	text string
}

// ScriptLoaded builds the message sent when the inbox watcher picks up a script
func ScriptLoaded(path, text string) scriptLoadedMsg {
	return scriptLoadedMsg{path: path, text: text}
}

// begunMsg is sent when segmentation and base-name resolution finish
type begunMsg struct {
	begun session.Begun
	err   error
}

// synthEventMsg is sent for each finished synthesis job
type synthEventMsg struct {
	ev    pipeline.Event
	ch    <-chan pipeline.Event
	batch bool
}

// synthDoneMsg is sent when a synthesis worker has no more events
type synthDoneMsg struct {
	batch bool
}

// publishEventMsg is sent for each publish outcome and once at the end
type publishEventMsg struct {
	ev session.PublishEvent
	ch <-chan session.PublishEvent
}

// confirmRequestMsg is sent when the publish worker needs an overwrite answer
type confirmRequestMsg struct {
	req session.ConfirmRequest
}

// playedMsg is sent when playback ends
type playedMsg struct {
	seq int
	err error
}

// exportedMsg is sent when the script document has been written
type exportedMsg struct {
	path string
	err  error
}
