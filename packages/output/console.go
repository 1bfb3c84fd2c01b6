package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/fatih/color"
)

// ConsoleFormatter prints a short summary of a run, one line per step.
// It writes to stderr by default so it never mixes with a body on stdout.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if f.noColor {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := f.paint(color.FgGreen)
	red := f.paint(color.FgRed)
	cyan := f.paint(color.FgCyan)
	bold := f.paint(color.Bold)

	if result.File != "" {
		fmt.Fprintf(f.writer, "%s\n", bold("Run: "+result.File))
	}

	for _, s := range result.Steps {
		symbol := green("✓")
		if !s.Passed() {
			symbol = red("✗")
		}

		label := fmt.Sprintf("step %d", s.Index)
		if s.Name != "" {
			label += " " + s.Name
		}
		if n := len(s.Calls); n > 0 {
			last := s.Calls[n-1]
			label += fmt.Sprintf(" %s %s -> %d", last.Request.Method, last.Request.URL, last.Response.StatusCode)
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, label, cyan(fmt.Sprintf("(%dms)", s.Duration.Milliseconds())))

		if f.verbose {
			for i, c := range s.Calls {
				fmt.Fprintf(f.writer, "    call %d: %s %s %s\n", i+1, c.Request.Method, c.Request.URL, c.Response.StatusLine())
			}
			if s.Compressed {
				fmt.Fprintf(f.writer, "    body encoded: %v\n", s.Calls[len(s.Calls)-1].Response.ContentEncodings())
			}
		}

		for _, e := range s.Errors {
			fmt.Fprintf(f.writer, "    %s %v\n", red("→"), e)
		}
	}

	status := green("success")
	if !result.Success {
		status = red("failure")
	}
	fmt.Fprintf(f.writer, "Steps: %d, %s\n", len(result.Steps), status)
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := f.paint(color.FgRed)
	fmt.Fprintf(f.writer, "%s %v\n", red("error:"), err)
}
