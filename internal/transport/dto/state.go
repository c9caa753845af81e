// Package dto holds the JSON shapes the HTTP and WebSocket transports send.
package dto

import (
	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/state"
)

// State mirrors state.State. Audio is the pronunciation URL or null.
type State struct {
	Status   Status   `json:"status"`
	Response Response `json:"response"`
}

type Status struct {
	Loading bool   `json:"loading"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type Response struct {
	Data     []Entry `json:"data"`
	Phonetic string  `json:"phonetic"`
	Audio    *string `json:"audio"`
}

type Entry struct {
	Word       string     `json:"word"`
	Phonetics  []Phonetic `json:"phonetics"`
	Meanings   []Meaning  `json:"meanings"`
	SourceURLs []string   `json:"sourceUrls,omitempty"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Synonyms     []string     `json:"synonyms"`
	Definitions  []Definition `json:"definitions"`
}

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// FromState converts a state snapshot.
func FromState(s state.State) State {
	out := State{
		Status: Status{
			Loading: s.Status.Loading,
			Error:   s.Status.Error,
			Message: s.Status.Message,
		},
		Response: Response{
			Data:     FromEntries(s.Response.Data),
			Phonetic: s.Response.Phonetic,
		},
	}
	if s.Response.Audio != nil {
		u := s.Response.Audio.URL()
		out.Response.Audio = &u
	}
	return out
}

// FromEntries converts domain entries. The result is never nil so that it
// encodes as [].
func FromEntries(entries []domain.Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		entry := Entry{
			Word:       e.Word,
			Phonetics:  make([]Phonetic, 0, len(e.Phonetics)),
			Meanings:   make([]Meaning, 0, len(e.Meanings)),
			SourceURLs: e.SourceURLs,
		}
		for _, p := range e.Phonetics {
			entry.Phonetics = append(entry.Phonetics, Phonetic{Text: p.Text, Audio: p.Audio})
		}
		for _, m := range e.Meanings {
			meaning := Meaning{
				PartOfSpeech: m.PartOfSpeech,
				Synonyms:     m.Synonyms,
				Definitions:  make([]Definition, 0, len(m.Definitions)),
			}
			if meaning.Synonyms == nil {
				meaning.Synonyms = []string{}
			}
			for _, d := range m.Definitions {
				meaning.Definitions = append(meaning.Definitions, Definition{Definition: d.Definition, Example: d.Example})
			}
			entry.Meanings = append(entry.Meanings, meaning)
		}
		out = append(out, entry)
	}
	return out
}
