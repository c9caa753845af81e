package domain

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is one dictionary result for a word. The API returns one entry per
// etymology, so a lookup yields a slice of them in API order.
type Entry struct {
	Word       string
	Phonetics  []Phonetic
	Meanings   []Meaning
	SourceURLs []string
}

// Phonetic is one pronunciation variant. Either field may be empty.
type Phonetic struct {
	Text  string
	Audio string
}

// Meaning groups synonyms and definitions under one part of speech.
type Meaning struct {
	PartOfSpeech string
	Synonyms     []string
	Definitions  []Definition
}

// Definition is a single sense of a meaning.
type Definition struct {
	Definition string
	Example    string
}

// FirstPhonetic returns the first non-empty phonetic text of the first entry,
// or "" when there is none.
func FirstPhonetic(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	for _, ph := range entries[0].Phonetics {
		if ph.Text != "" {
			return ph.Text
		}
	}
	return ""
}

// FirstAudio returns the first non-empty audio URL of the first entry, or "".
// It is searched independently of FirstPhonetic.
func FirstAudio(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	for _, ph := range entries[0].Phonetics {
		if ph.Audio != "" {
			return ph.Audio
		}
	}
	return ""
}

// Capitalize upper-cases the first letter and leaves the rest untouched,
// the way headwords, parts of speech and synonym badges are displayed.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// A Caser is stateful; one per call keeps this safe for concurrent use.
	return cases.Upper(language.English).String(s[:size]) + s[size:]
}
