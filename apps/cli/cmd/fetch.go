package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitbody/packages/core/config"
	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/abdul-hamid-achik/hitbody/packages/http"
	"github.com/abdul-hamid-achik/hitbody/packages/output"
	"github.com/abdul-hamid-achik/hitbody/packages/report"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>...",
	Short: "Request URLs in sequence and write the last response body",
	Long: `Request each URL as one step of a run, in order, then write the body of
the last response. Only the last call of the last step is written; with -L
that is the final hop of its redirects.

Examples:
  hitbody fetch https://example.com/api/health
  hitbody fetch https://example.com/login https://example.com/me -i
  hitbody fetch https://example.com --compressed -L -o body.html
  hitbody fetch https://example.com --report run.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: fetchCommand,
}

var (
	methodFlag          string
	dataFlag            string
	headerFlags         []string
	compressedFlag      bool
	locationFlag        bool
	maxRedirsFlag       int
	insecureFlag        bool
	proxyFlag           string
	timeoutFlag         string
	delayFlag           string
	continueOnErrorFlag bool
	reportFlag          string
)

func init() {
	addOutputFlags(fetchCmd)

	fetchCmd.Flags().StringVarP(&methodFlag, "request", "X", "GET", "HTTP method of every step")
	fetchCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body of every step")
	fetchCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Extra request header \"Name: Value\" (repeatable, kept in order)")
	fetchCmd.Flags().BoolVar(&compressedFlag, "compressed", getEnvBool("HITBODY_COMPRESSED", false), "Request a compressed body and decode it on output (env: HITBODY_COMPRESSED)")
	fetchCmd.Flags().BoolVarP(&locationFlag, "location", "L", getEnvBool("HITBODY_LOCATION", false), "Follow redirects (env: HITBODY_LOCATION)")
	fetchCmd.Flags().IntVar(&maxRedirsFlag, "max-redirs", getEnvInt("HITBODY_MAX_REDIRS", config.DefaultMaxRedirects), "Maximum number of redirects to follow, 0 for none (env: HITBODY_MAX_REDIRS)")
	fetchCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("HITBODY_INSECURE", false), "Disable SSL certificate validation (env: HITBODY_INSECURE)")
	fetchCmd.Flags().StringVarP(&proxyFlag, "proxy", "x", getEnvString("HITBODY_PROXY", ""), "Use the given proxy for every request (env: HITBODY_PROXY)")
	fetchCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("HITBODY_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: HITBODY_TIMEOUT)")
	fetchCmd.Flags().StringVar(&delayFlag, "delay", getEnvString("HITBODY_DELAY", ""), "Delay between steps (e.g., 500ms) (env: HITBODY_DELAY)")
	fetchCmd.Flags().BoolVar(&continueOnErrorFlag, "continue-on-error", getEnvBool("HITBODY_CONTINUE_ON_ERROR", false), "Keep running steps after a failure (env: HITBODY_CONTINUE_ON_ERROR)")
	fetchCmd.Flags().StringVar(&reportFlag, "report", getEnvString("HITBODY_REPORT", ""), "Save the run as a JSON report (env: HITBODY_REPORT)")
}

// fetchOverrides turns explicitly set fetch flags into a config layer.
func fetchOverrides(cmd *cobra.Command) (*config.Config, error) {
	c := &config.Config{}
	if flagSet(cmd, "compressed", "HITBODY_COMPRESSED") {
		c.Compressed = config.BoolPtr(compressedFlag)
	}
	if flagSet(cmd, "location", "HITBODY_LOCATION") {
		c.FollowRedirects = config.BoolPtr(locationFlag)
	}
	if flagSet(cmd, "max-redirs", "HITBODY_MAX_REDIRS") {
		if maxRedirsFlag < 0 {
			return nil, fmt.Errorf("invalid max-redirs %d: must not be negative", maxRedirsFlag)
		}
		c.MaxRedirects = config.IntPtr(maxRedirsFlag)
	}
	if proxyFlag != "" {
		c.Proxy = proxyFlag
	}
	if flagSet(cmd, "insecure", "HITBODY_INSECURE") {
		c.Insecure = config.BoolPtr(insecureFlag)
	}
	if flagSet(cmd, "continue-on-error", "HITBODY_CONTINUE_ON_ERROR") {
		c.ContinueOnError = config.BoolPtr(continueOnErrorFlag)
	}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", timeoutFlag, err)
		}
		c.Timeout = int(d.Milliseconds())
	}
	if delayFlag != "" {
		d, err := time.ParseDuration(delayFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid delay %q: %w", delayFlag, err)
		}
		c.Delay = int(d.Milliseconds())
	}
	return c, nil
}

// parseHeaders reads "Name: Value" flags in the order given. Repeated names
// are all kept.
func parseHeaders(values []string) (http.HeaderList, error) {
	var headers http.HeaderList
	for _, h := range values {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Name: Value\"", h)
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers, nil
}

func runnerConfig(cfg *config.Config) *runner.Config {
	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers http.HeaderList
	for _, name := range names {
		headers.Add(name, cfg.Headers[name])
	}

	return &runner.Config{
		Timeout:        time.Duration(cfg.Timeout) * time.Millisecond,
		FollowRedirect: cfg.GetFollowRedirects(),
		MaxRedirects:   config.IntPtr(cfg.GetMaxRedirects()),
		Insecure:       cfg.GetInsecure(),
		Proxy:          cfg.Proxy,
		Compressed:     cfg.GetCompressed(),
		Headers:        headers,
		Delay:          time.Duration(cfg.Delay) * time.Millisecond,
		Bail:           !cfg.GetContinueOnError(),
	}
}

func fetchCommand(cmd *cobra.Command, args []string) error {
	overrides, err := fetchOverrides(cmd)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	headers, err := parseHeaders(headerFlags)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	cfg, err := loadSettings(outputOverrides(cmd), overrides)
	if err != nil {
		return err
	}
	if cfg.Proxy != "" {
		if _, err := http.ParseProxyURL(cfg.Proxy); err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}
	logger := newLogger(cfg)

	steps := make([]*runner.Step, 0, len(args))
	for _, url := range args {
		req := http.NewRequest(strings.ToUpper(methodFlag), url)
		req.Headers = append(http.HeaderList(nil), headers...)
		if dataFlag != "" {
			req.SetBody([]byte(dataFlag))
		}
		steps = append(steps, &runner.Step{Name: url, Request: req})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := runnerConfig(cfg)
	rc.Logger = logger
	result, runErr := runner.NewRunner(rc).Run(ctx, "", steps)

	if cfg.GetVerbose() {
		output.NewConsoleFormatter(
			output.WithVerbose(true),
			output.WithNoColor(!cfg.GetColor(true)),
		).FormatResult(result)
	}

	if reportFlag != "" {
		if err := report.Save(reportFlag, result); err != nil {
			return withExitCode(ExitOutputError, err)
		}
		logger.Debug("saved run report", "path", reportFlag, "run", result.ID)
	}

	if err := writeBody(cmd, cfg, result, logger); err != nil {
		return err
	}

	if runErr != nil {
		return withExitCode(ExitRunFailure, fmt.Errorf("run interrupted: %w", runErr))
	}
	if !result.Success {
		return withExitCode(runFailureCode(result), fmt.Errorf("run failed: %v", result.Errors()[0]))
	}
	return nil
}

func runFailureCode(result *runner.RunResult) int {
	for _, e := range result.Errors() {
		if e.Kind == runner.ErrorKindHTTP {
			return ExitNetworkError
		}
	}
	return ExitRunFailure
}

