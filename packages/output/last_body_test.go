package output

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/abdul-hamid-achik/hitbody/packages/http"
	"github.com/abdul-hamid-achik/hitbody/packages/term"
)

func stepTo(index int, url string, response *http.Response) *runner.StepResult {
	if response == nil {
		response = &http.Response{}
	}
	return &runner.StepResult{
		Index: index,
		Calls: []*runner.Call{{
			Request:  http.NewRequest("GET", url),
			Response: response,
		}},
	}
}

func runResult() *runner.RunResult {
	var headers http.HeaderList
	headers.Add("x-foo", "xxx")
	headers.Add("x-bar", "yyy0")
	headers.Add("x-bar", "yyy1")
	headers.Add("x-bar", "yyy2")
	headers.Add("x-baz", "zzz")

	return &runner.RunResult{
		Steps: []*runner.StepResult{
			stepTo(1, "https://foo.com", nil),
			stepTo(2, "https://bar.com", nil),
			stepTo(3, "https://baz.com", &http.Response{
				Version:    http.Version3,
				StatusCode: 204,
				Headers:    headers,
				Body:       []byte(`{"say": "Hello World!"}`),
			}),
		},
		Success: true,
	}
}

func bufferedStdout() *term.Stdout {
	return term.NewStdout(term.WriteModeBuffered)
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestWriteLastBody_WithHeaders(t *testing.T) {
	stdout := bufferedStdout()
	dest := StdoutOutput()

	err := WriteLastBody(runResult(), true, false, &dest, stdout)

	require.NoError(t, err)
	assert.Equal(t, "HTTP/3 204\n"+
		"x-foo: xxx\n"+
		"x-bar: yyy0\n"+
		"x-bar: yyy1\n"+
		"x-bar: yyy2\n"+
		"x-baz: zzz\n"+
		"\n"+
		`{"say": "Hello World!"}`, string(stdout.Buffer()))
}

func TestWriteLastBody_BodyOnly(t *testing.T) {
	stdout := bufferedStdout()

	err := WriteLastBody(runResult(), false, false, nil, stdout)

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"say": "Hello World!"}`), stdout.Buffer())
}

func TestWriteLastBody_BinaryBodyUnchanged(t *testing.T) {
	body := []byte{0x00, 0xff, 0x1f, 0x8b, '\n', 0x7f}
	result := &runner.RunResult{Steps: []*runner.StepResult{
		stepTo(1, "https://foo.com", &http.Response{StatusCode: 200, Body: body}),
	}}
	stdout := bufferedStdout()

	require.NoError(t, WriteLastBody(result, false, false, nil, stdout))
	assert.Equal(t, body, stdout.Buffer())
}

func TestWriteLastBody_NoResponse(t *testing.T) {
	tests := []struct {
		name   string
		result *runner.RunResult
	}{
		{"nil result", nil},
		{"no steps", &runner.RunResult{}},
		{"last step without calls", &runner.RunResult{Steps: []*runner.StepResult{
			stepTo(1, "https://foo.com", &http.Response{Body: []byte("ignored")}),
			{Index: 2},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := bufferedStdout()
			err := WriteLastBody(tt.result, true, false, nil, stdout)
			require.NoError(t, err)
			assert.Empty(t, stdout.Buffer())
		})
	}
}

func TestWriteLastBody_LastCallOfLastStep(t *testing.T) {
	step := stepTo(1, "https://foo.com", &http.Response{Body: []byte("redirect")})
	step.Calls = append(step.Calls, &runner.Call{
		Request:  http.NewRequest("GET", "https://foo.com/final"),
		Response: &http.Response{Body: []byte("final")},
	})
	stdout := bufferedStdout()

	require.NoError(t, WriteLastBody(&runner.RunResult{Steps: []*runner.StepResult{step}}, false, false, nil, stdout))
	assert.Equal(t, "final", string(stdout.Buffer()))
}

func TestWriteLastBody_Compressed(t *testing.T) {
	response := &http.Response{
		Version:    http.Version11,
		StatusCode: 200,
		Headers:    http.HeaderList{{Name: "Content-Encoding", Value: "gzip"}},
		Body:       gzipped(t, "Hello World!"),
	}
	step := stepTo(1, "https://foo.com", response)
	step.Compressed = true
	stdout := bufferedStdout()

	err := WriteLastBody(&runner.RunResult{Steps: []*runner.StepResult{step}}, true, false, nil, stdout)

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200\nContent-Encoding: gzip\n\nHello World!", string(stdout.Buffer()))
}

func TestWriteLastBody_EncodedBodyNotDecodedWhenNotCompressed(t *testing.T) {
	encoded := gzipped(t, "Hello World!")
	response := &http.Response{
		Headers: http.HeaderList{{Name: "Content-Encoding", Value: "gzip"}},
		Body:    encoded,
	}
	stdout := bufferedStdout()

	err := WriteLastBody(&runner.RunResult{Steps: []*runner.StepResult{stepTo(1, "https://foo.com", response)}}, false, false, nil, stdout)

	require.NoError(t, err)
	assert.Equal(t, encoded, stdout.Buffer())
}

func TestWriteLastBody_DecompressionError(t *testing.T) {
	response := &http.Response{
		Headers: http.HeaderList{{Name: "Content-Encoding", Value: "gzip"}},
		Body:    []byte("not gzip at all"),
	}
	step := stepTo(1, "https://foo.com", response)
	step.Compressed = true

	path := filepath.Join(t.TempDir(), "body.out")
	dest := FileOutput(path)
	stdout := bufferedStdout()

	err := WriteLastBody(&runner.RunResult{Steps: []*runner.StepResult{step}}, true, false, &dest, stdout)

	require.Error(t, err)
	var outErr *Error
	require.ErrorAs(t, err, &outErr)

	runErr, ok := RunError(err)
	require.True(t, ok)
	assert.Equal(t, runner.ErrorKindDecompression, runErr.Kind)
	assert.Equal(t, runner.NoSourceInfo, runErr.Source)
	assert.False(t, runErr.AssertFailure)

	var decErr *http.DecompressionError
	assert.ErrorAs(t, err, &decErr)

	assert.Empty(t, stdout.Buffer())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteLastBody_UnknownEncoding(t *testing.T) {
	response := &http.Response{
		Headers: http.HeaderList{{Name: "Content-Encoding", Value: "compress"}},
		Body:    []byte("whatever"),
	}
	step := stepTo(1, "https://foo.com", response)
	step.Compressed = true
	stdout := bufferedStdout()

	err := WriteLastBody(&runner.RunResult{Steps: []*runner.StepResult{step}}, false, false, nil, stdout)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "<compress>")
	assert.Empty(t, stdout.Buffer())
}

func TestWriteLastBody_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte("previous content that is longer"), 0644))
	dest := FileOutput(path)
	stdout := bufferedStdout()

	err := WriteLastBody(runResult(), false, false, &dest, stdout)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"say": "Hello World!"}`, string(data))
	assert.Empty(t, stdout.Buffer())
}

func TestWriteLastBody_FileError(t *testing.T) {
	dest := FileOutput(filepath.Join(t.TempDir(), "missing", "dir", "body"))

	err := WriteLastBody(runResult(), false, false, &dest, bufferedStdout())

	require.Error(t, err)
	var outErr *Error
	require.ErrorAs(t, err, &outErr)
	assert.Contains(t, err.Error(), "issue writing to")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
