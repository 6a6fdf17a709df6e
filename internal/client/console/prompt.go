// Package console handles terminal interaction: prompts, hidden secret
// entry and colored status lines.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from an input stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewPrompter returns a Prompter reading from in and writing prompts to out.
// When in is a terminal, secrets are read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// ReadLine shows prompt and returns the next line without its line ending.
// It returns io.EOF when the input is closed before anything is typed.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret shows prompt and reads a secret. Surrounding spaces are part
// of the secret.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	if !p.tty {
		return p.ReadLine(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read hidden input: %w", err)
	}
	return string(b), nil
}

// AskPath returns fallback when it is set, and otherwise asks for a path.
// An empty answer is an error.
func (p *Prompter) AskPath(fallback, prompt string) (string, error) {
	if fallback != "" {
		return fallback, nil
	}
	answer, err := p.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("no path given")
	}
	return answer, nil
}
