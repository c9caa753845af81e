package tui

import "github.com/heartmarshall/quickdict/internal/state"

// StateMsg carries a new snapshot from the session.
type StateMsg struct {
	State state.State
}

// StateClosedMsg is sent when the session's state stream ends.
type StateClosedMsg struct{}

// CommitDoneMsg reports the end of an immediate commit (enter, synonym,
// clear). The outcome itself arrives as a StateMsg.
type CommitDoneMsg struct {
	Err error
}

// PlayDoneMsg reports the end of pronunciation playback.
type PlayDoneMsg struct {
	Err error
}
