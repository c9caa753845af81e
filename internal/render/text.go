// Package render formats lookup results as plain text for the CLI and MCP
// surfaces.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/state"
)

// Text renders s as plain text: the status message if any, then every entry
// with its meanings, definitions, examples and synonyms.
func Text(s state.State) string {
	var b strings.Builder
	WriteText(&b, s)
	return b.String()
}

// WriteText writes the Text rendering of s to w.
func WriteText(w io.Writer, s state.State) {
	if s.Status.Message != "" {
		fmt.Fprintln(w, s.Status.Message)
		if s.HasData() {
			fmt.Fprintln(w)
		}
	}
	if !s.HasData() {
		return
	}

	header := domain.Capitalize(s.Word())
	if s.Response.Phonetic != "" {
		header += "  " + s.Response.Phonetic
	}
	fmt.Fprintln(w, header)
	if s.Response.Audio != nil {
		fmt.Fprintf(w, "Audio: %s\n", s.Response.Audio.URL())
	}

	for i, e := range s.Response.Data {
		if i > 0 {
			fmt.Fprintf(w, "\n%s (%d)\n", domain.Capitalize(e.Word), i+1)
		}
		writeMeanings(w, e.Meanings)
	}
}

func writeMeanings(w io.Writer, meanings []domain.Meaning) {
	for _, m := range meanings {
		fmt.Fprintf(w, "\n%s\n", domain.Capitalize(m.PartOfSpeech))
		for j, d := range m.Definitions {
			fmt.Fprintf(w, "  %d. %s\n", j+1, d.Definition)
			if d.Example != "" {
				fmt.Fprintf(w, "     %q\n", d.Example)
			}
		}
		if len(m.Synonyms) > 0 {
			syn := make([]string, len(m.Synonyms))
			for k, s := range m.Synonyms {
				syn[k] = domain.Capitalize(s)
			}
			fmt.Fprintf(w, "  Synonyms: %s\n", strings.Join(syn, ", "))
		}
	}
}
