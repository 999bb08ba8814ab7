package swagger

import (
	"fmt"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
)

// RegisterFormats registers custom string formats with kin-openapi's format
// machinery. Each entry maps a format name to a regular expression pattern.
// Registration is process-wide: kin-openapi keeps a single format registry,
// so two documents cannot define the same format name differently.
func RegisterFormats(formats map[string]string) error {
	for name, pattern := range formats {
		if name == "" {
			return fmt.Errorf("custom format name must not be empty")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid pattern for format %q: %w", name, err)
		}
		openapi3.DefineStringFormat(name, pattern)
	}
	return nil
}
