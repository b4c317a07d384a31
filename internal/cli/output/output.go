// Package output renders user-facing CLI messages. Diagnostic logging goes
// through clog; this package is only for what the user is meant to read.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Symbols for CLI output (ASCII-compatible)
const (
	SymbolSuccess = "+"
	SymbolError   = "x"
	SymbolWarning = "!"
	SymbolInfo    = "*"
	SymbolArrow   = "->"
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	colors           = detectColors
)

// SetWriters redirects output and disables colours. It returns a function
// restoring the previous writers.
func SetWriters(out, errOut io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr, prevColors := stdout, stderr, colors
	stdout, stderr = out, errOut
	colors = func() bool { return false }
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stdout, stderr, colors = prevOut, prevErr, prevColors
	}
}

// detectColors respects NO_COLOR (https://no-color.org/) and only colours a terminal.
func detectColors() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func style(code, text string) string {
	if !colors() {
		return text
	}
	return code + text + reset
}

func Bold(text string) string {
	return style(bold, text)
}

func Dim(text string) string {
	return style(dim, text)
}

func Success(text string) string {
	return style(green, text)
}

func Error(text string) string {
	return style(red, text)
}

func Warning(text string) string {
	return style(yellow, text)
}

func Info(text string) string {
	return style(cyan, text)
}

func printTo(w func() io.Writer, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(w(), format, args...)
}

func out() io.Writer    { return stdout }
func errOut() io.Writer { return stderr }

// PrintSuccess prints a success message with a plus
func PrintSuccess(message string) {
	printTo(out, "%s %s\n", Success(SymbolSuccess), Success(message))
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	printTo(errOut, "%s %s\n", Error(SymbolError), Error(message))
}

// PrintWarning prints a warning message to stderr
func PrintWarning(message string) {
	printTo(errOut, "%s %s\n", Warning(SymbolWarning), Warning(message))
}

func PrintInfo(message string) {
	printTo(out, "%s %s\n", Info(SymbolInfo), Info(message))
}

// PrintStep prints a step being executed with arrow
func PrintStep(message string) {
	printTo(out, "  %s %s\n", SymbolArrow, message)
}

// PrintSecondary prints supplementary information, dimmed
func PrintSecondary(message string) {
	printTo(out, "  %s %s\n", SymbolArrow, Dim(message))
}

// PrintField prints an aligned key: value line, used for settings and release details.
func PrintField(key string, value any) {
	printTo(out, "  %-16s %v\n", key+":", value)
}
