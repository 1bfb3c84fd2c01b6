// Package term provides the process standard output used to emit results.
package term

import (
	"bytes"
	"io"
	"os"
)

// WriteMode controls whether bytes reach the underlying writer at once or
// are kept until Flush.
type WriteMode int

const (
	// WriteModeInherit uses the Stdout's own mode. It is only meaningful as a
	// per-write override.
	WriteModeInherit WriteMode = iota
	WriteModeImmediate
	WriteModeBuffered
)

func (m WriteMode) String() string {
	switch m {
	case WriteModeImmediate:
		return "immediate"
	case WriteModeBuffered:
		return "buffered"
	}
	return "inherit"
}

// Stdout is a caller-owned handle on standard output. It is not safe for
// concurrent use.
type Stdout struct {
	mode   WriteMode
	writer io.Writer
	buffer bytes.Buffer
}

type StdoutOption func(*Stdout)

// WithWriter replaces os.Stdout as the destination of immediate writes and
// flushes.
func WithWriter(w io.Writer) StdoutOption {
	return func(s *Stdout) {
		s.writer = w
	}
}

func NewStdout(mode WriteMode, opts ...StdoutOption) *Stdout {
	if mode == WriteModeInherit {
		mode = WriteModeImmediate
	}
	s := &Stdout{
		mode:   mode,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stdout) Mode() WriteMode {
	return s.mode
}

// Write writes p with the Stdout's mode.
func (s *Stdout) Write(p []byte) (int, error) {
	return s.WriteWithMode(p, WriteModeInherit)
}

// WriteWithMode writes p with mode, or with the Stdout's mode for WriteModeInherit.
func (s *Stdout) WriteWithMode(p []byte, mode WriteMode) (int, error) {
	if mode == WriteModeInherit {
		mode = s.mode
	}
	if mode == WriteModeBuffered {
		return s.buffer.Write(p)
	}
	return s.writer.Write(p)
}

// Buffer returns the bytes buffered so far.
func (s *Stdout) Buffer() []byte {
	return s.buffer.Bytes()
}

// Flush writes buffered bytes to the underlying writer and empties the buffer.
func (s *Stdout) Flush() error {
	if s.buffer.Len() == 0 {
		return nil
	}
	_, err := s.writer.Write(s.buffer.Bytes())
	s.buffer.Reset()
	return err
}
