package terminal

import (
	"fmt"
	"os"

	"helmtest/internal/ports"

	"golang.org/x/term"
)

var _ ports.TerminalInput = (*TerminalInput)(nil)

// TerminalInput reads cluster tokens from the controlling terminal.
type TerminalInput struct{}

func ProvideTerminalInput() *TerminalInput {
	return &TerminalInput{}
}

// ReadPassword prints the prompt to stderr so it never ends up in captured
// stdout, then reads a line without echo.
func (t *TerminalInput) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func (t *TerminalInput) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
