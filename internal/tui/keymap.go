package tui

// Key bindings handled in handleKey.
const (
	KeyQuit     = "ctrl+c"
	KeyEsc      = "esc"
	KeyEnter    = "enter"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyPlay     = "ctrl+p"
	KeyClear    = "ctrl+l"
	KeyPgUp     = "pgup"
	KeyPgDown   = "pgdown"
)

const helpText = "enter: look up now • tab: synonyms • ctrl+p: play • ctrl+l: clear • esc: quit"
