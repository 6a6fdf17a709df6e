package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Printer writes tagged status lines. Colors follow fatih/color, which turns
// them off for non-terminals and when NO_COLOR is set.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Alert(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

// Plain writes text without a tag.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}
