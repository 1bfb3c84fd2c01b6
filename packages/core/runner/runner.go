package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/hitbody/packages/http"
	"github.com/google/uuid"
)

type Runner struct {
	client *http.Client
	config *Config
	logger *slog.Logger
}

type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	// MaxRedirects limits the redirects followed per step; nil keeps the
	// client default and 0 follows none.
	MaxRedirects *int
	Insecure     bool
	// Proxy routes every request through the given proxy URL.
	Proxy      string
	Compressed bool
	Headers    http.HeaderList
	// Delay is waited before every step but the first.
	Delay time.Duration
	// Bail stops the run at the first failing step.
	Bail   bool
	Logger *slog.Logger
}

// Step is one request to execute.
type Step struct {
	Name    string
	Source  SourceInfo
	Request *http.Request
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithValidateSSL(!cfg.Insecure),
		http.WithCompressed(cfg.Compressed),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRedirects != nil {
		clientOpts = append(clientOpts, http.WithMaxRedirects(*cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	for _, h := range cfg.Headers {
		clientOpts = append(clientOpts, http.WithDefaultHeader(h.Name, h.Value))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		client: http.NewClient(clientOpts...),
		config: cfg,
		logger: logger,
	}
}

// Run executes steps sequentially. A cancelled context stops the run between
// steps and aborts the request in flight; the result gathered so far is
// returned along with ctx.Err().
func (r *Runner) Run(ctx context.Context, file string, steps []*Step) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{
		ID:        uuid.New().String(),
		File:      file,
		Success:   true,
		Timestamp: start,
	}
	logger := r.logger.With("run", result.ID)

	for i, step := range steps {
		if i > 0 && r.config.Delay > 0 {
			select {
			case <-ctx.Done():
				result.Duration = time.Since(start)
				return result, ctx.Err()
			case <-time.After(r.config.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		stepResult := r.runStep(ctx, i+1, step)
		result.Steps = append(result.Steps, stepResult)
		logger.Debug("step executed",
			"index", stepResult.Index,
			"calls", len(stepResult.Calls),
			"compressed", stepResult.Compressed,
			"duration", stepResult.Duration)

		if !stepResult.Passed() {
			result.Success = false
			for _, e := range stepResult.Errors {
				logger.Debug("step failed", "index", stepResult.Index, "error", e)
			}
			if r.config.Bail {
				break
			}
		}
	}

	result.Duration = time.Since(start)
	return result, ctx.Err()
}

func (r *Runner) runStep(ctx context.Context, index int, step *Step) *StepResult {
	result := &StepResult{
		Index:  index,
		Name:   step.Name,
		Source: step.Source,
	}

	begin := time.Now()
	exchanges, err := r.client.Do(ctx, step.Request)
	end := time.Now()
	result.Duration = end.Sub(begin)

	for _, ex := range exchanges {
		callEnd := begin.Add(ex.Response.Duration)
		result.Calls = append(result.Calls, &Call{
			Request:  ex.Request,
			Response: ex.Response,
			Timings: Timings{
				Begin: begin,
				End:   callEnd,
				Total: ex.Response.Duration,
			},
		})
		begin = callEnd
	}

	if err != nil {
		result.Errors = append(result.Errors, NewError(step.Source, ErrorKindHTTP, fmt.Errorf("%s %s: %w", step.Request.Method, step.Request.URL, err), false))
	}

	if n := len(result.Calls); n > 0 && r.client.Compressed() {
		last := result.Calls[n-1].Response
		result.Compressed = hasEncoding(last)
	}

	return result
}

func hasEncoding(resp *http.Response) bool {
	for _, enc := range resp.ContentEncodings() {
		if enc != http.EncodingIdentity {
			return true
		}
	}
	return false
}
