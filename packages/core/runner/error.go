package runner

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Position is a 1-based line and column in a test script.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceInfo locates the script text a step or error comes from.
type SourceInfo struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NoSourceInfo marks errors that have no meaningful script location, such as
// failures while writing output after the run.
var NoSourceInfo = SourceInfo{}

// Known reports whether s points at an actual location.
func (s SourceInfo) Known() bool {
	return s.Start.Line > 0
}

// ErrorKind classifies run errors.
type ErrorKind int

const (
	ErrorKindHTTP ErrorKind = iota
	ErrorKindDecompression
)

var errorKindNames = map[ErrorKind]string{
	ErrorKindHTTP:          "http",
	ErrorKindDecompression: "decompression",
}

var errorKindDescriptions = map[ErrorKind]string{
	ErrorKindHTTP:          "HTTP connection",
	ErrorKindDecompression: "Decompression error",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Description is the human readable title used when reporting an error.
func (k ErrorKind) Description() string {
	if d, ok := errorKindDescriptions[k]; ok {
		return d
	}
	return "Error"
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(data []byte) error {
	for kind, name := range errorKindNames {
		if name == string(data) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind: %q", data)
}

// Error is the error shape shared by every failure reported for a run.
type Error struct {
	Source SourceInfo
	Kind   ErrorKind
	Err    error
	// AssertFailure is set when the error comes from a failed check rather
	// than from being unable to run.
	AssertFailure bool
}

func NewError(source SourceInfo, kind ErrorKind, err error, assertFailure bool) *Error {
	return &Error{
		Source:        source,
		Kind:          kind,
		Err:           err,
		AssertFailure: assertFailure,
	}
}

func (e *Error) Error() string {
	msg := e.Kind.Description()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if !e.Source.Known() {
		return msg
	}
	return fmt.Sprintf("line %d:%d: %s", e.Source.Start.Line, e.Source.Start.Column, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type errorJSON struct {
	Source        SourceInfo `json:"source"`
	Kind          ErrorKind  `json:"kind"`
	Message       string     `json:"message"`
	AssertFailure bool       `json:"assert"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	out := errorJSON{
		Source:        e.Source,
		Kind:          e.Kind,
		AssertFailure: e.AssertFailure,
	}
	if e.Err != nil {
		out.Message = e.Err.Error()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a reported error. The original cause is reduced to
// its message.
func (e *Error) UnmarshalJSON(data []byte) error {
	var in errorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Source = in.Source
	e.Kind = in.Kind
	e.AssertFailure = in.AssertFailure
	e.Err = nil
	if in.Message != "" {
		e.Err = errors.New(in.Message)
	}
	return nil
}
