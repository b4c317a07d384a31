package ports

// TerminalInput reads secrets typed by the user.
type TerminalInput interface {
	// ReadPassword prompts and returns the input without echoing it.
	ReadPassword(prompt string) (string, error)
	// IsTerminal returns true if stdin is connected to a terminal.
	IsTerminal() bool
}
