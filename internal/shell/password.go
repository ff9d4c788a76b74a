package shell

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether in is an interactive terminal.
func IsTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadPassword reads a password without echo when in is a terminal.
// Otherwise it returns the next line from readLine, so pipes and test
// buffers work.
func ReadPassword(in io.Reader, readLine func() (string, error)) (string, error) {
	if !IsTerminal(in) {
		return readLine()
	}
	b, err := term.ReadPassword(int(in.(*os.File).Fd()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
