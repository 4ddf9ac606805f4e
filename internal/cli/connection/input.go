package connection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LineReader supplies lines typed by the user. hidden asks for input that
// is not echoed; readers that cannot hide input ignore it.
type LineReader interface {
	ReadLine(hidden bool) (string, error)
}

// Input reads lines from a reader, and hides them when the reader is a
// terminal and hidden input is requested.
type Input struct {
	r   *bufio.Reader
	fd  int
	out io.Writer
}

// NewTerminalInput reads from f, typically os.Stdin. The newline swallowed
// by hidden entry is written to out.
func NewTerminalInput(f *os.File, out io.Writer) *Input {
	return &Input{r: bufio.NewReader(f), fd: int(f.Fd()), out: out}
}

// NewInput reads from r without terminal support.
func NewInput(r io.Reader) *Input {
	return &Input{r: bufio.NewReader(r), fd: -1}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned before io.EOF.
func (in *Input) ReadLine(hidden bool) (string, error) {
	if hidden && in.fd >= 0 && term.IsTerminal(in.fd) {
		b, err := term.ReadPassword(in.fd)
		if in.out != nil {
			fmt.Fprintln(in.out)
		}
		return string(b), err
	}

	line, err := in.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
