// Package ui serves the bundled Swagger UI documentation viewer.
//
// The index page is rendered from an embedded template pointing the viewer
// at the gate's schema route; all other assets come from the swagger-ui
// distribution embedded in github.com/swaggo/files.
package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	swaggerFiles "github.com/swaggo/files"
)

// Config controls the rendered viewer.
type Config struct {
	// SchemaURL is the URL the viewer loads the specification from.
	SchemaURL string

	// ValidatorURL points the viewer at an online spec validator. Empty
	// disables the validator badge.
	ValidatorURL string
}

// UI is an http.Handler serving the viewer. Mount it with its path prefix
// stripped, so the index is requested as "/" and assets by bare name.
type UI struct {
	cfg Config
}

// New creates a viewer handler.
func New(cfg Config) *UI {
	return &UI{cfg: cfg}
}

// ServeHTTP implements http.Handler.
func (u *UI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/") {
	case "", "index.html":
		u.serveIndex(w)
	default:
		swaggerFiles.Handler.ServeHTTP(w, r)
	}
}

func (u *UI) serveIndex(w http.ResponseWriter) {
	// null turns the validator badge off in swagger-ui.
	validator := "null"
	if u.cfg.ValidatorURL != "" {
		encoded, err := json.Marshal(u.cfg.ValidatorURL)
		if err == nil {
			validator = string(encoded)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, indexData{
		SchemaURL:    u.cfg.SchemaURL,
		ValidatorURL: template.JS(validator),
	})
}

type indexData struct {
	SchemaURL    string
	ValidatorURL template.JS
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>API Documentation</title>
  <link rel="stylesheet" type="text/css" href="./swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="./swagger-ui-bundle.js" charset="UTF-8"></script>
<script src="./swagger-ui-standalone-preset.js" charset="UTF-8"></script>
<script>
window.onload = function() {
  window.ui = SwaggerUIBundle({
    url: {{.SchemaURL}},
    validatorUrl: {{.ValidatorURL}},
    dom_id: "#swagger-ui",
    deepLinking: true,
    presets: [
      SwaggerUIBundle.presets.apis,
      SwaggerUIStandalonePreset
    ],
    layout: "StandaloneLayout"
  });
};
</script>
</body>
</html>
`))
