package state

import (
	"github.com/heartmarshall/quickdict/internal/adapter/audio"
	"github.com/heartmarshall/quickdict/internal/domain"
)

// Action is a state transition request. The concrete types below are the
// only implementations.
type Action interface {
	actionName() string
}

// ClearStatus resets the status to neutral; the response is untouched.
type ClearStatus struct{}

// EmptyQuery resets both the response and the status.
type EmptyQuery struct{}

// InvalidQuery reports a rejected query.
type InvalidQuery struct{ Message string }

// FetchStart marks a lookup in flight.
type FetchStart struct{}

// FetchSuccess stores the entries of a successful lookup.
type FetchSuccess struct{ Entries []domain.Entry }

// FetchError reports a failed lookup.
type FetchError struct{ Message string }

// AddPhonetic sets the displayed phonetic text ("" when none was found).
type AddPhonetic struct{ Text string }

// AddAudio sets the pronunciation handle (nil when none was found).
type AddAudio struct{ Audio audio.Playable }

func (ClearStatus) actionName() string  { return "CLEAR_STATUS" }
func (EmptyQuery) actionName() string   { return "EMPTY_QUERY" }
func (InvalidQuery) actionName() string { return "INVALID_QUERY" }
func (FetchStart) actionName() string   { return "FETCH_START" }
func (FetchSuccess) actionName() string { return "FETCH_SUCCESS" }
func (FetchError) actionName() string   { return "FETCH_ERROR" }
func (AddPhonetic) actionName() string  { return "ADD_PHONETIC" }
func (AddAudio) actionName() string     { return "ADD_AUDIO" }

// Name returns the action's log name, e.g. "FETCH_START".
func Name(a Action) string {
	if a == nil {
		return "NIL"
	}
	return a.actionName()
}
