package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophGate/internal/complexity"
	"github.com/atinyakov/GophGate/internal/models"
	"github.com/atinyakov/GophGate/internal/repository"
	"github.com/atinyakov/GophGate/internal/service"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestPrompter_ReadLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("first\r\n  second  \nlast"), &out)

	got, err := p.ReadLine("a: ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = p.ReadSecret("b: ")
	require.NoError(t, err)
	assert.Equal(t, "  second  ", got, "secrets keep their spaces")

	got, err = p.ReadLine("c: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.ReadLine("d: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "a: b: c: d: ", out.String())
}

func TestPrompter_PipeIsNotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_, _ = w.WriteString("Привет1Qq\n")
	w.Close()

	p := NewPrompter(r, io.Discard)
	got, err := p.ReadSecret("secret: ")
	require.NoError(t, err)
	assert.Equal(t, "Привет1Qq", got)
}

func TestPrompter_AskPath(t *testing.T) {
	p := NewPrompter(strings.NewReader(" /tmp/x \n\n"), io.Discard)

	got, err := p.AskPath("given", "path: ")
	require.NoError(t, err)
	assert.Equal(t, "given", got)

	got, err = p.AskPath("", "path: ")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)

	_, err = p.AskPath("", "path: ")
	assert.EqualError(t, err, "no path given")
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)
	p.Info("i %d", 1)
	p.Success("s")
	p.Warning("w")
	p.Error("e")
	p.Alert("a")
	p.Plain("plain\n")

	assert.Equal(t, "[*] i 1\n[+] s\n[!] w\n[-] e\n[!!!] a\nplain\n", out.String())
}

func TestGateReporter_Notify(t *testing.T) {
	cases := []struct {
		notice service.Notice
		want   []string
	}{
		{service.Notice{Event: service.EventEnrolled}, []string{"[+] Secret set"}},
		{service.Notice{Event: service.EventGranted}, []string{"[+] Access granted."}},
		{service.Notice{Event: service.EventWrongSecret, AttemptsLeft: 2}, []string{"[!] Wrong secret. Attempts left: 2"}},
		{service.Notice{Event: service.EventExhausted}, []string{"[!!!] Too many wrong attempts", "BLOCKED"}},
		{service.Notice{Event: service.EventDenied}, []string{"[-] The record is locked (BLOCKED)"}},
		{
			service.Notice{Event: service.EventWeakSecret, Complexity: complexity.Check("abc")},
			[]string{"complexity requirements", "length 3, at least 6", "missing: latin uppercase, cyrillic lowercase", "still holds MAGIC"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.notice.Event.String(), func(t *testing.T) {
			var out bytes.Buffer
			NewGateReporter(NewPrinter(&out)).Notify(tc.notice)
			for _, w := range tc.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestGateReporter_Failure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"denied already reported", service.ErrDenied, ""},
		{"exhausted already reported", fmt.Errorf("x: %w", service.ErrExhausted), ""},
		{"weak already reported", service.ErrWeakSecret, ""},
		{"not found", fmt.Errorf("%w: /r", repository.ErrNotFound), "[-] Record file not found: /r"},
		{"corrupt", fmt.Errorf("/r: %w", models.ErrCorruptRecord), "left unchanged"},
		{"io", errors.New("permission denied"), "[-] Gate failed: permission denied"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			NewGateReporter(NewPrinter(&out)).Failure("/r", tc.err)
			if tc.want == "" {
				assert.Empty(t, out.String())
				return
			}
			assert.Contains(t, out.String(), tc.want)
		})
	}
}
