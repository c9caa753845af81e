// Package state holds the lookup state and the pure reducer that transitions it.
package state

import (
	"github.com/heartmarshall/quickdict/internal/adapter/audio"
	"github.com/heartmarshall/quickdict/internal/domain"
)

// StatusKind is the coarse lookup status.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status mirrors the flags the presentation layer renders: a spinner while
// Loading, the Message while Error.
type Status struct {
	Loading bool
	Error   bool
	Message string
}

// Kind collapses the flags into one status. Loading wins over Error.
func (s Status) Kind() StatusKind {
	switch {
	case s.Loading:
		return StatusLoading
	case s.Error:
		return StatusError
	default:
		return StatusIdle
	}
}

// Response is the last lookup result.
type Response struct {
	Data     []domain.Entry
	Phonetic string
	Audio    audio.Playable
}

// State is the complete lookup state of one session.
type State struct {
	Response Response
	Status   Status
}

// Initial returns the start state: idle, no data.
func Initial() State {
	return State{Response: Response{Data: []domain.Entry{}}}
}

// HasData reports whether a successful lookup is being shown.
func (s State) HasData() bool {
	return len(s.Response.Data) > 0
}

// Word returns the headword of the first entry, or "".
func (s State) Word() string {
	if len(s.Response.Data) == 0 {
		return ""
	}
	return s.Response.Data[0].Word
}
