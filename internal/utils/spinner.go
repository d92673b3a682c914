package utils

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerUtil shows progress while a slow lookup runs. On a writer that is
// not a terminal every method is a no-op.
type SpinnerUtil struct {
	s      *spinner.Spinner
	active bool
}

// NewSpinnerService creates a spinner on stderr
func NewSpinnerService() *SpinnerUtil {
	return NewSpinnerOn(os.Stderr)
}

// NewSpinnerOn creates a spinner that draws on w.
func NewSpinnerOn(w io.Writer) *SpinnerUtil {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	f, ok := w.(*os.File)
	return &SpinnerUtil{s: s, active: ok && IsTerminal(f)}
}

// Enabled reports whether the spinner will draw anything.
func (s *SpinnerUtil) Enabled() bool {
	return s.active
}

// Start begins the spinner with the given message
func (s *SpinnerUtil) Start(message string) {
	if !s.active {
		return
	}
	s.s.Suffix = " " + message
	s.s.Start()
}

// Stop stops the spinner
func (s *SpinnerUtil) Stop() {
	if !s.active {
		return
	}
	s.s.Stop()
}

// Success stops the spinner and displays a success message
func (s *SpinnerUtil) Success(message string) {
	if !s.active {
		return
	}
	s.s.FinalMSG = "✓ " + message + "\n"
	s.s.Stop()
}

// Error stops the spinner and displays an error message
func (s *SpinnerUtil) Error(message string) {
	if !s.active {
		return
	}
	s.s.FinalMSG = "✗ " + message + "\n"
	s.s.Stop()
}
