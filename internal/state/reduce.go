package state

import "github.com/heartmarshall/quickdict/internal/domain"

// Reduce returns the state that results from applying a to s. It never
// mutates s and has no side effects. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ClearStatus:
		s.Status = Status{}
	case EmptyQuery:
		return Initial()
	case InvalidQuery:
		s.Status = Status{Error: true, Message: a.Message}
	case FetchStart:
		s.Status = Status{Loading: true}
	case FetchSuccess:
		data := a.Entries
		if data == nil {
			data = []domain.Entry{}
		}
		s.Response.Data = data
		s.Status.Loading = false
	case FetchError:
		s.Status = Status{Error: true, Message: a.Message}
	case AddPhonetic:
		s.Response.Phonetic = a.Text
	case AddAudio:
		s.Response.Audio = a.Audio
	}
	return s
}
