package gate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/specgate/specgate/pkg/logging"
	"github.com/specgate/specgate/pkg/swagger"
	"github.com/specgate/specgate/pkg/ui"
)

// Gate validates requests and responses against a specification document.
// It is stateless across requests and safe for concurrent use: the document
// and configuration are read-only after New.
type Gate struct {
	doc        *swagger.Document
	cfg        Config
	schemaPath string
	uiPath     string
	uiHandler  http.Handler
	filterOpts *openapi3filter.Options
}

// New creates a Gate for the given document. Zero-valued handler and
// sub-path options are filled with their defaults.
func New(doc *swagger.Document, cfg Config) (*Gate, error) {
	if doc == nil {
		return nil, fmt.Errorf("specification document is required")
	}

	if cfg.InvalidRequestHandler == nil {
		cfg.InvalidRequestHandler = defaultInvalidRequestHandler
	}
	if cfg.InvalidResponseHandler == nil {
		cfg.InvalidResponseHandler = defaultInvalidResponseHandler
	}
	if cfg.NotFoundHandler == nil {
		cfg.NotFoundHandler = defaultNotFoundHandler
	}
	if cfg.ExceptionHandler == nil {
		cfg.ExceptionHandler = defaultExceptionHandler
	}
	if cfg.SchemaSuburl == "" {
		cfg.SchemaSuburl = DefaultSchemaSuburl
	}
	if cfg.UISuburl == "" {
		cfg.UISuburl = DefaultUISuburl
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.ServeUI {
		// The viewer loads the document from the schema route.
		cfg.ServeSchema = true
	}

	auth := cfg.Authenticate
	if auth == nil {
		auth = openapi3filter.NoopAuthenticationFunc
	}

	g := &Gate{
		doc:        doc,
		cfg:        cfg,
		schemaPath: joinPath(doc.BasePath(), cfg.SchemaSuburl),
		uiPath:     joinPath(doc.BasePath(), cfg.UISuburl) + "/",
		filterOpts: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
			AuthenticationFunc:    auth,
		},
	}

	if cfg.ServeUI {
		schemaURL := joinPath(cfg.MountPrefix, g.schemaPath)
		g.uiHandler = http.StripPrefix(
			strings.TrimSuffix(g.uiPath, "/"),
			ui.New(ui.Config{SchemaURL: schemaURL, ValidatorURL: cfg.UIValidatorURL}),
		)
	}

	return g, nil
}

// Config returns a copy of the gate's configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// Document returns the specification document the gate validates against.
func (g *Gate) Document() *swagger.Document {
	return g.doc
}

// SchemaPath returns the path the raw document is served at.
func (g *Gate) SchemaPath() string {
	return g.schemaPath
}

// Wrap returns an http.Handler that intercepts requests for next.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.serve(w, r, next)
	})
}

// Middleware returns the gate as a func(http.Handler) http.Handler for use
// with router middleware chains.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Wrap(next)
	}
}

func (g *Gate) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	reqPath := r.URL.Path

	if g.cfg.ServeSchema && reqPath == g.schemaPath && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		g.serveSchema(w)
		return
	}

	if g.cfg.ServeUI {
		if reqPath == strings.TrimSuffix(g.uiPath, "/") {
			http.Redirect(w, r, g.uiPath, http.StatusMovedPermanently)
			return
		}
		if strings.HasPrefix(reqPath, g.uiPath) {
			g.uiHandler.ServeHTTP(w, r)
			return
		}
	}

	route, pathParams, err := g.doc.FindRoute(r)
	if err != nil {
		if g.cfg.IgnoreUndefinedRoutes || !strings.HasPrefix(reqPath, g.doc.BasePath()) {
			next.ServeHTTP(w, r)
			return
		}
		g.cfg.NotFoundHandler(w, r, NewError(http.StatusNotFound, "no operation for %s %s", r.Method, reqPath))
		return
	}

	var bodyBytes []byte
	if r.Body != nil && r.Body != http.NoBody {
		// Read one byte past the cap so an over-limit body is
		// distinguishable from one that exactly fills it.
		bodyBytes, err = io.ReadAll(io.LimitReader(r.Body, g.cfg.MaxBodyBytes+1))
		if err != nil {
			g.cfg.InvalidRequestHandler(w, r, fmt.Errorf("failed to read request body: %w", err))
			return
		}
		if int64(len(bodyBytes)) > g.cfg.MaxBodyBytes {
			g.cfg.InvalidRequestHandler(w, r, NewError(http.StatusRequestEntityTooLarge,
				"request body exceeds %d bytes", g.cfg.MaxBodyBytes))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	reqInput := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options:    g.filterOpts,
	}

	if g.cfg.ValidateRequests {
		if err := openapi3filter.ValidateRequest(r.Context(), reqInput); err != nil {
			g.cfg.Logger.Warn("request validation failed",
				"method", r.Method, "path", reqPath, "error", err)
			g.cfg.InvalidRequestHandler(w, r, err)
			return
		}
	}

	// Validation consumes the body; hand the handler a fresh reader.
	if bodyBytes != nil {
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	data := &Data{
		Route:      route,
		PathParams: pathParams,
		Query:      r.URL.Query(),
		Body:       decodeJSONBody(r.Header.Get("Content-Type"), bodyBytes),
	}
	r = r.WithContext(contextWithData(r.Context(), data))

	if !g.cfg.ValidateResponses {
		g.callNext(next, w, w, r)
		return
	}

	rec := newResponseRecorder(g.cfg.MaxBodyBytes)
	if !g.callNext(next, rec, w, r) {
		return
	}

	if rec.truncated {
		err := NewError(http.StatusInternalServerError,
			"response body exceeds %d bytes", g.cfg.MaxBodyBytes)
		g.cfg.Logger.Warn("response validation failed",
			"method", r.Method, "path", reqPath, "status", rec.statusCode, "error", err)
		g.cfg.InvalidResponseHandler(w, r, err)
		return
	}

	if err := g.validateResponse(reqInput, rec); err != nil {
		g.cfg.Logger.Warn("response validation failed",
			"method", r.Method, "path", reqPath, "status", rec.statusCode, "error", err)
		g.cfg.InvalidResponseHandler(w, r, err)
		return
	}

	rec.flush(w)
}

// callNext invokes the wrapped handler with panic recovery. Recovered
// panics are routed to ExceptionHandler on errW; http.ErrAbortHandler is
// re-raised for the server to handle. Returns false when a panic was
// handled.
func (g *Gate) callNext(next http.Handler, w http.ResponseWriter, errW http.ResponseWriter, r *http.Request) (ok bool) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		err, isErr := rec.(error)
		if !isErr {
			err = fmt.Errorf("%v", rec)
		}
		g.cfg.Logger.Error("handler panicked",
			"method", r.Method, "path", r.URL.Path, "error", err)
		g.cfg.ExceptionHandler(errW, r, err)
		ok = false
	}()

	next.ServeHTTP(w, r)
	return true
}

func (g *Gate) validateResponse(reqInput *openapi3filter.RequestValidationInput, rec *responseRecorder) error {
	header := rec.Header()
	if rec.body.Len() > 0 && header.Get("Content-Type") == "" {
		// Match the document's default; an absent content type would
		// otherwise skip body validation.
		header.Set("Content-Type", "application/json")
	}

	respInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: reqInput,
		Status:                 rec.statusCode,
		Header:                 header,
		Options:                g.filterOpts,
	}
	if rec.body.Len() > 0 {
		respInput.SetBodyBytes(rec.body.Bytes())
	}

	return openapi3filter.ValidateResponse(reqInput.Request.Context(), respInput)
}

func (g *Gate) serveSchema(w http.ResponseWriter) {
	var (
		data []byte
		err  error
	)
	if g.cfg.AdjustBasePath {
		data, err = g.doc.JSONWithPrefix(g.cfg.MountPrefix)
	} else {
		data, err = g.doc.JSON()
	}
	if err != nil {
		g.cfg.Logger.Error("failed to serialize schema document", "error", err)
		http.Error(w, "failed to serialize schema document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// decodeJSONBody decodes a JSON request body for the validation context.
// Non-JSON and empty bodies decode to nil.
func decodeJSONBody(contentType string, body []byte) any {
	if len(body) == 0 || !strings.Contains(contentType, "json") {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	return decoded
}

// joinPath joins URL path segments, keeping a single leading slash and no
// trailing slash.
func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			segments = append(segments, p)
		}
	}
	return "/" + strings.Join(segments, "/")
}
