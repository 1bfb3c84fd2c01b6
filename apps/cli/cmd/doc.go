// Package cmd implements the hitbody CLI commands using Cobra.
//
// Available commands:
//   - last: Write the last response body of a saved run report
//   - fetch: Request one or more URLs in sequence and write the last body
//   - version: Show hitbody version information
//
// Output flags (-i, -o, --color) are shared by last and fetch and can also
// be set from a config file or HITBODY_* environment variables.
package cmd
