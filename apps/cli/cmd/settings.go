package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/hitbody/packages/core/config"
	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
	"github.com/abdul-hamid-achik/hitbody/packages/output"
	"github.com/abdul-hamid-achik/hitbody/packages/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	includeFlag bool
	colorFlag   bool
	noColorFlag bool
	outputFlag  string
	configFlag  string
	verboseFlag bool
)

// addOutputFlags registers the flags shared by every command that writes a body.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&includeFlag, "include", "i", getEnvBool("HITBODY_INCLUDE", false), "Include the status line and headers before the body (env: HITBODY_INCLUDE)")
	cmd.Flags().BoolVar(&colorFlag, "color", getEnvBool("HITBODY_COLOR", false), "Colorize the status line and headers (env: HITBODY_COLOR)")
	cmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HITBODY_NO_COLOR", false), "Never colorize output (env: HITBODY_NO_COLOR)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HITBODY_OUTPUT", ""), "Write the body to a file instead of stdout, - for stdout (env: HITBODY_OUTPUT)")
	cmd.Flags().StringVar(&configFlag, "config", getEnvString("HITBODY_CONFIG", ""), "Path to config file (env: HITBODY_CONFIG)")
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HITBODY_VERBOSE", false), "Log run details to stderr (env: HITBODY_VERBOSE)")
	cmd.MarkFlagsMutuallyExclusive("color", "no-color")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// flagSet reports whether a flag was given on the command line or through
// its environment variable.
func flagSet(cmd *cobra.Command, name, envKey string) bool {
	return cmd.Flags().Changed(name) || os.Getenv(envKey) != ""
}

// outputOverrides turns explicitly set output flags into a config layer.
func outputOverrides(cmd *cobra.Command) *config.Config {
	c := &config.Config{}
	if flagSet(cmd, "include", "HITBODY_INCLUDE") {
		c.Include = config.BoolPtr(includeFlag)
	}
	if flagSet(cmd, "color", "HITBODY_COLOR") {
		c.Color = config.BoolPtr(colorFlag)
	}
	if flagSet(cmd, "no-color", "HITBODY_NO_COLOR") && noColorFlag {
		c.Color = config.BoolPtr(false)
	}
	if flagSet(cmd, "output", "HITBODY_OUTPUT") {
		c.Output = outputFlag
	}
	if flagSet(cmd, "verbose", "HITBODY_VERBOSE") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	return c
}

// loadSettings reads the config file and applies the given flag layers on top.
func loadSettings(layers ...*config.Config) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}
	for _, layer := range layers {
		cfg = cfg.Merge(layer)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.GetVerbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeBody writes the last body of result as configured. Unless set
// explicitly, color is only used on a terminal stdout.
func writeBody(cmd *cobra.Command, cfg *config.Config, result *runner.RunResult, logger *slog.Logger) error {
	dest := output.ParseOutput(cfg.Output)
	color := cfg.GetColor(dest.IsStdout() && stdoutIsTerminal())
	stdout := term.NewStdout(term.WriteModeImmediate, term.WithWriter(cmd.OutOrStdout()))

	logger.Debug("writing last body",
		"destination", dest.String(),
		"include", cfg.GetInclude(),
		"color", color)

	if err := output.WriteLastBody(result, cfg.GetInclude(), color, &dest, stdout); err != nil {
		return withExitCode(ExitOutputError, err)
	}
	return nil
}
