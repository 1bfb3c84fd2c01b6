package output

import (
	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/abdul-hamid-achik/hitbody/packages/term"
)

// WriteLastBody writes the body of the last response of result to dest, or to
// standard output when dest is nil. With includeHeaders the status line and
// headers are written first, curl style.
//
// A run without any call writes nothing and succeeds. Nothing is written when
// rendering fails.
func WriteLastBody(result *runner.RunResult, includeHeaders, color bool, dest *Output, stdout *term.Stdout) error {
	step, call, ok := result.LastCall()
	if !ok {
		return nil
	}

	content, err := RenderLastBody(step, call, includeHeaders, color)
	if err != nil {
		return err
	}

	return Emit(content, dest, stdout)
}

// RenderLastBody builds the bytes for call, the last call of step.
func RenderLastBody(step *runner.StepResult, call *runner.Call, includeHeaders, color bool) ([]byte, error) {
	response := call.Response
	var out []byte

	if includeHeaders {
		out = append(out, response.StatusLineHeaders(color)...)
		out = append(out, '\n')
	}

	if !step.Compressed {
		return append(out, response.Body...), nil
	}

	body, err := response.UncompressBody()
	if err != nil {
		// Decoding happens after the run, so there is no script location.
		runErr := runner.NewError(runner.NoSourceInfo, runner.ErrorKindDecompression, err, false)
		return nil, newRunError(runErr)
	}
	return append(out, body...), nil
}
