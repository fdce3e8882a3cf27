package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// colorReporter prints the same layout as glox.WriterReporter, with the
// line marker and error label highlighted when enabled.
type colorReporter struct {
	w         io.Writer
	lineColor *color.Color
	errColor  *color.Color
}

func newColorReporter(w io.Writer, enabled bool) *colorReporter {
	cr := &colorReporter{
		w:         w,
		lineColor: color.New(color.FgCyan),
		errColor:  color.New(color.FgRed, color.Bold),
	}
	if !enabled {
		cr.lineColor.DisableColor()
		cr.errColor.DisableColor()
	}
	return cr
}

func (cr *colorReporter) StaticError(line int, where, message string) {
	_, _ = fmt.Fprintf(cr.w, "%s %s: %s\n",
		cr.lineColor.Sprintf("[line %d]", line),
		cr.errColor.Sprint("Error"+where),
		message,
	)
}

func (cr *colorReporter) RuntimeError(line int, message string) {
	_, _ = fmt.Fprintf(cr.w, "%s\n%s\n",
		cr.errColor.Sprint(message),
		cr.lineColor.Sprintf("[line %d]", line),
	)
}
