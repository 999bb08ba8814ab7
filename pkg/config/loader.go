package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// Load reads, schema-validates, and decodes a specgate.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes raw YAML config bytes. The document is validated against
// the embedded JSON schema before structural decoding.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateSemantics(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func validateSchema(raw any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// Round trip through JSON so numbers and maps carry the types the
	// schema library expects.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to re-encode config: %w", err)
	}
	var value any
	if err := json.Unmarshal(encoded, &value); err != nil {
		return fmt.Errorf("failed to re-decode config: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("specgate.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add config schema resource: %w", err)
	}
	schema, err := compiler.Compile("specgate.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema, nil
}

// validateSemantics checks constraints the JSON schema cannot express.
func validateSemantics(cfg *Config) error {
	sources := 0
	for _, s := range []string{cfg.Spec.File, cfg.Spec.URL, cfg.Spec.Inline} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("spec: exactly one of file, url, or inline must be set")
	}

	if cfg.Upstream != "" {
		u, err := url.Parse(cfg.Upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("upstream: %q is not an absolute URL", cfg.Upstream)
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
}
