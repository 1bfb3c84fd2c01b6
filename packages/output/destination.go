package output

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitbody/packages/term"
)

type destinationKind int

const (
	kindStdout destinationKind = iota
	kindFile
)

// Output is where rendered bytes go: standard output or a named file. The
// zero value is standard output.
type Output struct {
	kind destinationKind
	path string
}

func StdoutOutput() Output {
	return Output{kind: kindStdout}
}

func FileOutput(path string) Output {
	return Output{kind: kindFile, path: path}
}

// ParseOutput reads a command line destination, where "-" means standard output.
func ParseOutput(s string) Output {
	if s == "" || s == "-" {
		return StdoutOutput()
	}
	return FileOutput(s)
}

func (o Output) IsStdout() bool {
	return o.kind == kindStdout
}

// Path is the file name of a file destination, empty for standard output.
func (o Output) Path() string {
	return o.path
}

func (o Output) String() string {
	if o.IsStdout() {
		return "standard output"
	}
	return o.path
}

// Write sends content to the destination in a single write. stdout is used
// for the standard output destination; mode overrides its write mode unless
// it is term.WriteModeInherit. A file destination is created or truncated.
func (o Output) Write(content []byte, stdout *term.Stdout, mode term.WriteMode) error {
	if o.IsStdout() {
		if _, err := stdout.WriteWithMode(content, mode); err != nil {
			return &Error{Message: fmt.Sprintf("issue writing to stdout: %v", err), Err: err}
		}
		return nil
	}

	if err := os.WriteFile(o.path, content, 0644); err != nil {
		return &Error{Message: fmt.Sprintf("issue writing to %s: %v", o.path, err), Err: err}
	}
	return nil
}

// Emit writes content to dest, or to standard output when dest is nil.
func Emit(content []byte, dest *Output, stdout *term.Stdout) error {
	if dest != nil {
		return dest.Write(content, stdout, term.WriteModeInherit)
	}
	return StdoutOutput().Write(content, stdout, term.WriteModeInherit)
}
