package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heartmarshall/quickdict/internal/domain"
)

// chromeHeight is the number of lines View uses around the viewport.
const chromeHeight = 10

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("quickdict"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	if m.st.HasData() {
		b.WriteString(m.renderHeader())
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		if len(m.synonyms) > 0 {
			b.WriteString(m.renderSynonyms())
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.st.Status.Loading:
		return m.spinner.View() + " Loading..."
	case m.st.Status.Error:
		return errorStyle.Render(m.st.Status.Message)
	case m.note != "":
		return helpStyle.Render(m.note)
	}
	return ""
}

func (m Model) renderHeader() string {
	parts := []string{headwordStyle.Render(domain.Capitalize(m.st.Word()))}
	if m.st.Response.Phonetic != "" {
		parts = append(parts, phoneticStyle.Render(m.st.Response.Phonetic))
	}
	if m.st.Response.Audio != nil {
		parts = append(parts, helpStyle.Render("♪ ctrl+p"))
	}
	return strings.Join(parts, "  ")
}

// renderBody renders every meaning of every entry for the viewport.
func (m Model) renderBody() string {
	var b strings.Builder
	for i, e := range m.st.Response.Data {
		if i > 0 {
			fmt.Fprintf(&b, "\n%s\n", headwordStyle.Render(fmt.Sprintf("%s (%d)", domain.Capitalize(e.Word), i+1)))
		}
		for _, mean := range e.Meanings {
			b.WriteString(partOfSpeechStyle.Render(domain.Capitalize(mean.PartOfSpeech)))
			b.WriteString("\n")
			for j, d := range mean.Definitions {
				fmt.Fprintf(&b, "%d. %s\n", j+1, d.Definition)
				if d.Example != "" {
					b.WriteString("   " + exampleStyle.Render(fmt.Sprintf("%q", d.Example)) + "\n")
				}
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSynonyms() string {
	badges := make([]string, len(m.synonyms))
	for i, s := range m.synonyms {
		style := synonymStyle
		if m.focus == FocusSynonyms && i == m.selected {
			style = selectedSynonymStyle
		}
		badges[i] = style.Render(domain.Capitalize(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}
