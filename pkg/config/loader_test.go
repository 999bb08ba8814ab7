package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimal(t *testing.T) {
	cfg, err := Parse([]byte(`
spec:
  file: swagger.yaml
`))
	require.NoError(t, err)

	assert.Equal(t, "swagger.yaml", cfg.Spec.File)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.True(t, cfg.Spec.ValidateEnabled())
	assert.True(t, cfg.Validation.RequestsEnabled())
	assert.True(t, cfg.Validation.ResponsesEnabled())
	assert.True(t, cfg.Serve.SchemaEnabled())
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(`
listen: ":9090"
upstream: http://backend:3000
spec:
  file: petstore.yaml
  basePath: /v2
  defaultTypeToObject: true
  formats:
    ulid: "^[0-9A-HJKMNP-TV-Z]{26}$"
validation:
  requests: true
  responses: false
  ignoreUndefinedRoutes: true
  maxBodyBytes: 1048576
serve:
  schema: true
  schemaSuburl: /spec.json
  ui: true
  uiSuburl: /docs/
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "http://backend:3000", cfg.Upstream)
	assert.Equal(t, "/v2", cfg.Spec.BasePath)
	assert.True(t, cfg.Spec.DefaultTypeToObject)
	assert.Contains(t, cfg.Spec.Formats, "ulid")
	assert.False(t, cfg.Validation.ResponsesEnabled())
	assert.True(t, cfg.Validation.IgnoreUndefinedRoutes)
	assert.EqualValues(t, 1048576, cfg.Validation.MaxBodyBytes)
	assert.True(t, cfg.Serve.UI)
	assert.Equal(t, "/spec.json", cfg.Serve.SchemaSuburl)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseRejectsMissingSpec(t *testing.T) {
	_, err := Parse([]byte(`listen: ":8080"`))
	assert.Error(t, err)
}

func TestParseRejectsMultipleSpecSources(t *testing.T) {
	_, err := Parse([]byte(`
spec:
  file: a.yaml
  url: http://example.com/spec.json
`))
	assert.Error(t, err)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`
spec:
  file: a.yaml
unknownOption: true
`))
	assert.Error(t, err)
}

func TestParseRejectsBadLogLevel(t *testing.T) {
	_, err := Parse([]byte(`
spec:
  file: a.yaml
logging:
  level: loud
`))
	assert.Error(t, err)
}

func TestParseRejectsRelativeUpstream(t *testing.T) {
	_, err := Parse([]byte(`
spec:
  file: a.yaml
upstream: backend:3000/api
`))
	assert.Error(t, err)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("listen: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spec:\n  file: swagger.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "swagger.yaml", cfg.Spec.File)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
