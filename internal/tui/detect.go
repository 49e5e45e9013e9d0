package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects between decorated terminal output and plain lines.
type Mode int

const (
	// ModePlain is used for pipes, log files and CI.
	ModePlain Mode = iota
	// ModeTerminal enables the progress bar and spinner.
	ModeTerminal
)

// DetectMode returns ModeTerminal only when w is a terminal and none of
// TAXILOAD_NO_PROGRESS=1, CI or NO_COLOR is set.
func DetectMode(w io.Writer) Mode {
	if os.Getenv("TAXILOAD_NO_PROGRESS") == "1" || os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ModePlain
	}
	return ModeTerminal
}
