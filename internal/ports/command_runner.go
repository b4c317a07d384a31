package ports

import "context"

// CommandRunner executes external commands and returns their output.
type CommandRunner interface {
	// Run executes a command and returns its combined stdout and stderr.
	// The command is killed when ctx is done.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunInteractive executes a command with stdin, stdout, and stderr connected
	// to the terminal. env extends the current process environment.
	RunInteractive(ctx context.Context, env []string, name string, args ...string) error
}
