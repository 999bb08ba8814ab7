package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/pkg/swagger"
)

var checkBasePath string

var checkCmd = &cobra.Command{
	Use:   "check <spec-file-or-url>",
	Short: "Load and validate a specification document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args[0], checkBasePath)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkBasePath, "base-path", "", "Override the document's basePath")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, source, basePath string) error {
	opts := swagger.DefaultOptions()
	opts.BasePath = basePath

	var (
		doc *swagger.Document
		err error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		doc, err = swagger.LoadURL(source, opts)
	} else {
		doc, err = swagger.LoadFile(source, opts)
	}
	if err != nil {
		return err
	}

	flavor := "OpenAPI 3"
	if doc.IsSwagger2() {
		flavor = "Swagger 2.0"
	}

	operations := 0
	if paths := doc.V3().Paths; paths != nil {
		for _, item := range paths.Map() {
			operations += len(item.Operations())
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s document, base path %s, %d operations\n",
		source, flavor, doc.BasePath(), operations)
	return nil
}
