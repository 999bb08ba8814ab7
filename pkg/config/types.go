// Package config loads and validates the specgate CLI configuration.
package config

// Config is the root structure of a specgate.yaml file.
type Config struct {
	// Listen is the address the proxy binds, e.g. ":8080".
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`

	// Upstream is the base URL requests are forwarded to (required for
	// serve).
	Upstream string `json:"upstream,omitempty" yaml:"upstream,omitempty"`

	// Spec names the specification document and its loading options.
	Spec SpecConfig `json:"spec" yaml:"spec"`

	// Validation controls the gate's validation behavior.
	Validation ValidationConfig `json:"validation,omitempty" yaml:"validation,omitempty"`

	// Serve controls the schema document and UI routes.
	Serve ServeConfig `json:"serve,omitempty" yaml:"serve,omitempty"`

	// Logging controls log output.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// SpecConfig names the specification source. Exactly one of File, URL, or
// Inline must be set.
type SpecConfig struct {
	// File is a path to a JSON or YAML document.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// URL fetches the document over HTTP.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Inline embeds the document directly in the config file.
	Inline string `json:"inline,omitempty" yaml:"inline,omitempty"`

	// Validate validates the document at load time. Defaults to true.
	Validate *bool `json:"validate,omitempty" yaml:"validate,omitempty"`

	// BasePath overrides the document's basePath.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	// DefaultTypeToObject treats untyped schemas as objects.
	DefaultTypeToObject bool `json:"defaultTypeToObject,omitempty" yaml:"defaultTypeToObject,omitempty"`

	// DereferenceRefs internalizes external $refs after loading.
	DereferenceRefs bool `json:"dereferenceRefs,omitempty" yaml:"dereferenceRefs,omitempty"`

	// AllowExternalRefs permits resolving $refs outside the document.
	AllowExternalRefs bool `json:"allowExternalRefs,omitempty" yaml:"allowExternalRefs,omitempty"`

	// Formats maps custom string format names to regexp patterns.
	Formats map[string]string `json:"formats,omitempty" yaml:"formats,omitempty"`
}

// ValidationConfig controls the gate.
type ValidationConfig struct {
	// Requests validates incoming requests. Defaults to true.
	Requests *bool `json:"requests,omitempty" yaml:"requests,omitempty"`

	// Responses validates upstream responses. Defaults to true.
	Responses *bool `json:"responses,omitempty" yaml:"responses,omitempty"`

	// IgnoreUndefinedRoutes proxies unmatched API routes instead of
	// answering 404.
	IgnoreUndefinedRoutes bool `json:"ignoreUndefinedRoutes,omitempty" yaml:"ignoreUndefinedRoutes,omitempty"`

	// MaxBodyBytes caps buffered request and response bodies.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
}

// ServeConfig controls the schema and UI routes.
type ServeConfig struct {
	// Schema serves the raw document. Defaults to true.
	Schema *bool `json:"schema,omitempty" yaml:"schema,omitempty"`

	// SchemaSuburl is the document's sub-path under the API base path.
	SchemaSuburl string `json:"schemaSuburl,omitempty" yaml:"schemaSuburl,omitempty"`

	// UI serves the bundled documentation viewer.
	UI bool `json:"ui,omitempty" yaml:"ui,omitempty"`

	// UISuburl is the viewer's sub-path under the API base path.
	UISuburl string `json:"uiSuburl,omitempty" yaml:"uiSuburl,omitempty"`

	// UIValidatorURL points the viewer at an online spec validator.
	UIValidatorURL string `json:"uiValidatorUrl,omitempty" yaml:"uiValidatorUrl,omitempty"`

	// MountPrefix is the path prefix the proxy is mounted under.
	MountPrefix string `json:"mountPrefix,omitempty" yaml:"mountPrefix,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DefaultListen is the proxy's default bind address.
const DefaultListen = ":8080"

// boolOr dereferences an optional flag with a default.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// RequestsEnabled reports whether request validation is on.
func (v ValidationConfig) RequestsEnabled() bool {
	return boolOr(v.Requests, true)
}

// ResponsesEnabled reports whether response validation is on.
func (v ValidationConfig) ResponsesEnabled() bool {
	return boolOr(v.Responses, true)
}

// SchemaEnabled reports whether the schema route is on.
func (s ServeConfig) SchemaEnabled() bool {
	return boolOr(s.Schema, true)
}

// ValidateEnabled reports whether spec validation at load time is on.
func (s SpecConfig) ValidateEnabled() bool {
	return boolOr(s.Validate, true)
}
