package command_runner

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"helmtest/internal/ports"
)

// waitDelay bounds how long a cancelled command may keep its output pipes
// open through processes it spawned before they are closed and it is killed.
const waitDelay = 2 * time.Second

// OsCommandRunner executes commands using os/exec.
type OsCommandRunner struct{}

func ProvideOsCommandRunner() *OsCommandRunner {
	return &OsCommandRunner{}
}

func (r *OsCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := command(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (r *OsCommandRunner) RunInteractive(ctx context.Context, env []string, name string, args ...string) error {
	cmd := command(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...) // Extend environment instead of replacing
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// command asks the process to terminate when ctx ends and kills it if it is
// still running waitDelay later.
func command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

var _ ports.CommandRunner = (*OsCommandRunner)(nil)
