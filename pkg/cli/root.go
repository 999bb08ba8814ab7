// Package cli implements the specgate command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build metadata, injected via ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "specgate",
	Short: "specgate puts Swagger/OpenAPI validation in front of an HTTP service",
	Long: `specgate is a validating reverse proxy. It loads a Swagger 2.0 or
OpenAPI 3 document, forwards requests to an upstream service, and rejects
traffic that does not match the document: invalid requests answer 400,
invalid upstream responses answer 500, and undefined API routes answer 404.

The raw document is served at /swagger.json under the API base path, with
an optional bundled Swagger UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
