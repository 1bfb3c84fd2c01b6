package cmd

import (
	"github.com/abdul-hamid-achik/hitbody/packages/report"
	"github.com/spf13/cobra"
)

var lastCmd = &cobra.Command{
	Use:   "last <report.json>",
	Short: "Write the last response body of a saved run",
	Long: `Write the body of the last response of a run report saved with
"hitbody fetch --report". A run that made no call writes nothing.

Examples:
  hitbody last run.json
  hitbody last run.json -i
  hitbody last run.json -o body.json`,
	Args: cobra.ExactArgs(1),
	RunE: lastCommand,
}

func init() {
	addOutputFlags(lastCmd)
}

func lastCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(outputOverrides(cmd))
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	result, err := report.Load(args[0])
	if err != nil {
		return withExitCode(ExitReportError, err)
	}
	logger.Debug("loaded run report", "path", args[0], "run", result.ID, "steps", len(result.Steps))

	return writeBody(cmd, cfg, result, logger)
}
