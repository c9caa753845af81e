// Package tui is the terminal front-end: a search box with debounced lookups,
// the current result, and selectable synonyms.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heartmarshall/quickdict/internal/service/lookup"
	"github.com/heartmarshall/quickdict/internal/state"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lookupSession interface {
	Subscribe() (<-chan state.State, func())
	SubmitInput(raw string) error
	Commit(ctx context.Context, raw string) (state.State, error)
	SelectSynonym(ctx context.Context, word string) (state.State, error)
	Clear(ctx context.Context) (state.State, error)
	Play(ctx context.Context) error
}

// Focus identifies the widget receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSynonyms
)

// Model is the bubbletea model.
type Model struct {
	ctx         context.Context
	session     lookupSession
	states      <-chan state.State
	unsubscribe func()

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	st       state.State
	synonyms []string
	selected int
	focus    Focus
	note     string // transient notice, e.g. playback failure

	width  int
	height int
}

// New creates a Model bound to sess. Close must be called when the program
// ends.
func New(ctx context.Context, sess lookupSession) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a word..."
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headwordStyle

	states, unsubscribe := sess.Subscribe()

	return Model{
		ctx:         ctx,
		session:     sess,
		states:      states,
		unsubscribe: unsubscribe,
		input:       ti,
		spinner:     sp,
		viewport:    viewport.New(80, 16),
		st:          state.Initial(),
	}
}

// Close stops the state subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts the cursor blink and the state stream.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.states))
}

// waitForState delivers the next snapshot from the session.
func waitForState(states <-chan state.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return StateClosedMsg{}
		}
		return StateMsg{State: st}
	}
}

func submitCmd(sess lookupSession, text string) tea.Cmd {
	return func() tea.Msg {
		if err := sess.SubmitInput(text); err != nil {
			return CommitDoneMsg{Err: err}
		}
		return nil
	}
}

func commitCmd(ctx context.Context, sess lookupSession, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := sess.Commit(ctx, text)
		return CommitDoneMsg{Err: err}
	}
}

func synonymCmd(ctx context.Context, sess lookupSession, word string) tea.Cmd {
	return func() tea.Msg {
		_, err := sess.SelectSynonym(ctx, word)
		return CommitDoneMsg{Err: err}
	}
}

func clearCmd(ctx context.Context, sess lookupSession) tea.Cmd {
	return func() tea.Msg {
		_, err := sess.Clear(ctx)
		return CommitDoneMsg{Err: err}
	}
}

func playCmd(ctx context.Context, sess lookupSession) tea.Cmd {
	return func() tea.Msg {
		return PlayDoneMsg{Err: sess.Play(ctx)}
	}
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case StateMsg:
		wasLoading := m.st.Status.Loading
		m.setState(msg.State)
		cmds := []tea.Cmd{waitForState(m.states)}
		if m.st.Status.Loading && !wasLoading {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case StateClosedMsg:
		return m, tea.Quit

	case CommitDoneMsg:
		if errors.Is(msg.Err, lookup.ErrSessionClosed) {
			return m, tea.Quit
		}
		return m, nil

	case PlayDoneMsg:
		switch {
		case msg.Err == nil:
			m.note = ""
		case errors.Is(msg.Err, lookup.ErrNoAudio):
			m.note = "No pronunciation audio for this word"
		default:
			m.note = "Could not play audio"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.st.Status.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyEsc:
		return m, tea.Quit

	case KeyPlay:
		return m, playCmd(m.ctx, m.session)

	case KeyClear:
		m.input.SetValue("")
		m.focusInput()
		return m, clearCmd(m.ctx, m.session)

	case KeyTab, KeyShiftTab:
		if m.focus == FocusInput && len(m.synonyms) > 0 {
			m.focus = FocusSynonyms
			m.input.Blur()
		} else {
			m.focusInput()
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case KeyPgUp, KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case KeyEnter:
		if m.focus == FocusSynonyms && m.selected < len(m.synonyms) {
			word := m.synonyms[m.selected]
			m.input.SetValue(word)
			m.focusInput()
			return m, synonymCmd(m.ctx, m.session, word)
		}
		return m, commitCmd(m.ctx, m.session, m.input.Value())
	}

	if m.focus == FocusSynonyms {
		switch msg.String() {
		case KeyLeft:
			if m.selected > 0 {
				m.selected--
			}
		case KeyRight:
			if m.selected < len(m.synonyms)-1 {
				m.selected++
			}
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.note = ""
		return m, tea.Batch(cmd, submitCmd(m.session, v))
	}
	return m, cmd
}

func (m *Model) focusInput() {
	m.focus = FocusInput
	m.input.Focus()
}

func (m *Model) setState(st state.State) {
	m.st = st
	m.synonyms = collectSynonyms(st)
	if m.selected >= len(m.synonyms) {
		m.selected = 0
	}
	if len(m.synonyms) == 0 && m.focus == FocusSynonyms {
		m.focusInput()
	}
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoTop()
}

// collectSynonyms lists the synonyms of every meaning in display order,
// without repeats.
func collectSynonyms(st state.State) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range st.Response.Data {
		for _, mean := range e.Meanings {
			for _, s := range mean.Synonyms {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}
	return out
}
