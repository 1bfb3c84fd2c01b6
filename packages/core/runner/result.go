package runner

import (
	"time"

	"github.com/abdul-hamid-achik/hitbody/packages/http"
)

// RunResult is the outcome of a whole run. Steps are in execution order and
// may be empty when the run stopped before executing anything.
type RunResult struct {
	ID        string        `json:"id"`
	File      string        `json:"file,omitempty"`
	Steps     []*StepResult `json:"steps"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Timestamp time.Time     `json:"timestamp"`
}

// StepResult is one executed step. Calls are in issuance order: a followed
// redirect adds one call per hop.
type StepResult struct {
	Index  int        `json:"index"`
	Name   string     `json:"name,omitempty"`
	Source SourceInfo `json:"source"`
	Calls  []*Call    `json:"calls"`
	// Compressed is set when the last call's response body is still encoded
	// with its Content-Encoding.
	Compressed bool          `json:"compressed"`
	Duration   time.Duration `json:"duration"`
	Errors     []*Error      `json:"errors,omitempty"`
}

// Call is a single request/response exchange.
type Call struct {
	Request  *http.Request  `json:"request"`
	Response *http.Response `json:"response"`
	Timings  Timings        `json:"timings"`
}

type Timings struct {
	Begin time.Time     `json:"begin"`
	End   time.Time     `json:"end"`
	Total time.Duration `json:"total"`
}

// LastCall returns the last call of the last step. ok is false when there are
// no steps or the last step made no call.
func (r *RunResult) LastCall() (step *StepResult, call *Call, ok bool) {
	if r == nil || len(r.Steps) == 0 {
		return nil, nil, false
	}
	step = r.Steps[len(r.Steps)-1]
	if step == nil || len(step.Calls) == 0 {
		return nil, nil, false
	}
	return step, step.Calls[len(step.Calls)-1], true
}

// Errors returns every step error in order.
func (r *RunResult) Errors() []*Error {
	var errs []*Error
	for _, s := range r.Steps {
		errs = append(errs, s.Errors...)
	}
	return errs
}

// Passed reports whether the step finished without errors.
func (s *StepResult) Passed() bool {
	return len(s.Errors) == 0
}
