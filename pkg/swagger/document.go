// Package swagger loads and prepares API specification documents.
//
// Documents may be Swagger 2.0 or OpenAPI 3.x, in JSON or YAML. Swagger 2.0
// documents are converted to an OpenAPI 3 model for validation while the raw
// document is kept verbatim for serving. All schema processing is delegated
// to github.com/getkin/kin-openapi.
package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"gopkg.in/yaml.v3"
)

// Options controls document loading and preparation.
type Options struct {
	// ValidateSpec validates the document at load time. A document that
	// fails validation is a load error.
	ValidateSpec bool

	// BasePath overrides the basePath declared in a Swagger 2.0 document
	// before conversion. Ignored for OpenAPI 3 documents.
	BasePath string

	// DefaultTypeToObject sets "type: object" on schemas that declare no
	// type and no composition keywords.
	DefaultTypeToObject bool

	// DereferenceRefs internalizes external $refs after loading so the
	// document is fully self-contained.
	DereferenceRefs bool

	// AllowExternalRefs permits the loader to resolve $refs outside the
	// document itself.
	AllowExternalRefs bool

	// Formats maps custom string format names to regular expression
	// patterns. Registration is process-wide, as format validation in
	// kin-openapi is global.
	Formats map[string]string
}

// DefaultOptions returns the default loading options.
func DefaultOptions() Options {
	return Options{ValidateSpec: true}
}

// Document is a prepared specification document. It is read-only after
// construction and safe for concurrent use.
type Document struct {
	raw      map[string]any
	v3       *openapi3.T
	router   routers.Router
	basePath string
	isV2     bool
}

// Load prepares a document from raw JSON or YAML bytes.
func Load(data []byte, opts Options) (*Document, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}
	return fromRaw(raw, opts)
}

// LoadFile prepares a document from a file path.
func LoadFile(filePath string, opts Options) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec from file %s: %w", filePath, err)
	}
	doc, err := Load(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from file %s: %w", filePath, err)
	}
	return doc, nil
}

// specClient bounds document fetches so loading from a URL cannot hang.
var specClient = &http.Client{Timeout: 30 * time.Second}

// LoadURL prepares a document fetched over HTTP.
func LoadURL(specURL string, opts Options) (*Document, error) {
	parsed, err := url.Parse(specURL)
	if err != nil {
		return nil, fmt.Errorf("invalid spec URL: %w", err)
	}
	resp, err := specClient.Get(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec from %s: %w", specURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spec from %s: status %d", specURL, resp.StatusCode)
	}
	const maxSpecSize = 32 << 20
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpecSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read spec from %s: %w", specURL, err)
	}
	doc, err := Load(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from %s: %w", specURL, err)
	}
	return doc, nil
}

func newLoader(opts Options) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = opts.AllowExternalRefs
	return loader
}

// decode parses JSON or YAML bytes into a generic document map.
func decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document is neither valid JSON nor YAML: %w", err)
	}
	return raw, nil
}

func fromRaw(raw map[string]any, opts Options) (*Document, error) {
	if err := RegisterFormats(opts.Formats); err != nil {
		return nil, err
	}

	d := &Document{raw: raw}

	switch {
	case raw["swagger"] == "2.0":
		d.isV2 = true
		if opts.BasePath != "" {
			raw["basePath"] = opts.BasePath
		}
		v3, err := convertV2(raw, opts)
		if err != nil {
			return nil, err
		}
		d.v3 = v3

	case raw["openapi"] != nil:
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode document: %w", err)
		}
		v3, err := newLoader(opts).LoadFromData(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load OpenAPI 3 document: %w", err)
		}
		d.v3 = v3

	default:
		return nil, fmt.Errorf("unsupported document: expected \"swagger: 2.0\" or an \"openapi\" version")
	}

	ctx := context.Background()

	if opts.DefaultTypeToObject {
		defaultTypesToObject(d.v3)
	}

	if opts.ValidateSpec {
		if err := d.v3.Validate(ctx); err != nil {
			return nil, fmt.Errorf("invalid spec: %w", err)
		}
	}

	if opts.DereferenceRefs {
		d.v3.InternalizeRefs(ctx, nil)
	}

	router, err := gorillamux.NewRouter(d.v3)
	if err != nil {
		return nil, fmt.Errorf("failed to build operation router: %w", err)
	}
	d.router = router

	d.basePath = resolveBasePath(raw, d.v3, opts)

	return d, nil
}

// convertV2 turns a raw Swagger 2.0 document into an OpenAPI 3 model.
func convertV2(raw map[string]any, opts Options) (*openapi3.T, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode document: %w", err)
	}
	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return nil, fmt.Errorf("failed to parse Swagger 2.0 document: %w", err)
	}
	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, fmt.Errorf("failed to convert Swagger 2.0 document: %w", err)
	}
	// Matching needs the base path even when the document names no host.
	if v2.BasePath != "" && len(v3.Servers) == 0 {
		v3.Servers = openapi3.Servers{&openapi3.Server{URL: v2.BasePath}}
	}
	// The converter leaves $refs unresolved; a round trip through the
	// loader resolves them so the model is usable for validation.
	converted, err := json.Marshal(v3)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode converted document: %w", err)
	}
	resolved, err := newLoader(opts).LoadFromData(converted)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve refs in converted document: %w", err)
	}
	return resolved, nil
}

// resolveBasePath determines the API base path used for route scoping.
func resolveBasePath(raw map[string]any, v3 *openapi3.T, opts Options) string {
	if opts.BasePath != "" {
		return opts.BasePath
	}
	if bp, ok := raw["basePath"].(string); ok && bp != "" {
		return bp
	}
	if len(v3.Servers) > 0 {
		if u, err := url.Parse(v3.Servers[0].URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return "/"
}

// V3 returns the OpenAPI 3 model used for validation.
func (d *Document) V3() *openapi3.T {
	return d.v3
}

// BasePath returns the API base path the document applies to.
func (d *Document) BasePath() string {
	return d.basePath
}

// IsSwagger2 reports whether the source document was Swagger 2.0.
func (d *Document) IsSwagger2() bool {
	return d.isV2
}

// FindRoute matches a request against the document's operations. Matching
// handles both exact and templated paths and is delegated to kin-openapi's
// router.
func (d *Document) FindRoute(r *http.Request) (*routers.Route, map[string]string, error) {
	return d.router.FindRoute(r)
}

// JSON serializes the raw document as it was loaded.
func (d *Document) JSON() ([]byte, error) {
	return json.Marshal(d.raw)
}

// JSONWithPrefix serializes the raw document with its basePath re-rooted
// under the given mount prefix. Only Swagger 2.0 documents carry a basePath;
// other documents are returned unchanged.
func (d *Document) JSONWithPrefix(prefix string) ([]byte, error) {
	if !d.isV2 || prefix == "" || prefix == "/" {
		return d.JSON()
	}
	adjusted := make(map[string]any, len(d.raw))
	for k, v := range d.raw {
		adjusted[k] = v
	}
	adjusted["basePath"] = joinPath(prefix, d.basePath)
	return json.Marshal(adjusted)
}

// joinPath joins URL path segments, keeping a single leading slash.
func joinPath(parts ...string) string {
	joined := path.Join(parts...)
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}
