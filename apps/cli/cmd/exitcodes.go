package cmd

// Exit codes for hitbody CLI
const (
	// ExitSuccess indicates the body was written
	ExitSuccess = 0

	// ExitRunFailure indicates one or more steps of the run failed
	ExitRunFailure = 1

	// ExitReportError indicates a run report could not be read
	ExitReportError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitOutputError indicates the body could not be rendered or written
	ExitOutputError = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
