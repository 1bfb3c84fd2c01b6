// Package report saves run results as JSON and loads them back.
//
// Bodies are stored base64 encoded, exactly as received, so a compressed body
// survives a round trip and can still be decoded when it is rendered.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaData []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaData)

// ValidationError lists every schema violation of a report.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid run report: " + strings.Join(e.Problems, "; ")
}

// Write encodes result as indented JSON.
func Write(w io.Writer, result *runner.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	return nil
}

// Save writes result to path, replacing any existing file.
func Save(path string, result *runner.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating run report: %w", err)
	}
	if err := Write(f, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read validates and decodes a report.
func Read(r io.Reader) (*runner.RunResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading run report: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var result runner.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding run report: %w", err)
	}
	return &result, nil
}

// Load reads the report stored at path.
func Load(path string) (*runner.RunResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run report: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Validate checks data against the run report schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating run report: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ValidationError{Problems: problems}
}
