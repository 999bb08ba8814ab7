package gate

import (
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
)

// Default sub-paths for the served schema document and the bundled UI.
const (
	DefaultSchemaSuburl = "/swagger.json"
	DefaultUISuburl     = "/ui/"
)

// DefaultMaxBodyBytes caps how much of a request or response body the gate
// buffers for validation.
const DefaultMaxBodyBytes int64 = 10 << 20

// ErrorHandler converts a validation failure into an HTTP response. The
// error describes what failed; handlers own the status code and body.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Config holds the gate's named options. It is fixed at construction time;
// a Gate never mutates its configuration afterwards.
type Config struct {
	// ValidateRequests validates incoming requests against the matched
	// operation.
	ValidateRequests bool

	// ValidateResponses validates handler responses against the matched
	// operation's response spec before they are sent.
	ValidateResponses bool

	// IgnoreUndefinedRoutes passes requests under the API base path that
	// match no operation through to the wrapped handler instead of
	// invoking NotFoundHandler.
	IgnoreUndefinedRoutes bool

	// InvalidRequestHandler answers requests that fail validation.
	// Defaults to a 400 JSON response.
	InvalidRequestHandler ErrorHandler

	// InvalidResponseHandler answers when the handler's response fails
	// validation, including responses with a status the operation does
	// not define. Defaults to a 500 JSON response.
	InvalidResponseHandler ErrorHandler

	// NotFoundHandler answers requests under the API base path that match
	// no operation. Defaults to a 404 JSON response.
	NotFoundHandler ErrorHandler

	// ExceptionHandler answers when the wrapped handler panics. Defaults
	// to a 500 JSON response. Panics with http.ErrAbortHandler are
	// re-raised untouched.
	ExceptionHandler ErrorHandler

	// ServeSchema serves the raw specification document. Forced on when
	// ServeUI is set, since the UI loads the document from that route.
	ServeSchema bool

	// SchemaSuburl is the sub-path under the API base path where the
	// document is served.
	SchemaSuburl string

	// ServeUI serves the bundled documentation viewer.
	ServeUI bool

	// UISuburl is the sub-path under the API base path where the viewer
	// is served.
	UISuburl string

	// UIValidatorURL points the viewer at an online spec validator.
	// Empty disables validator badges.
	UIValidatorURL string

	// AdjustBasePath rewrites the served document's basePath to include
	// MountPrefix, for applications mounted under a sub-path.
	AdjustBasePath bool

	// MountPrefix is the path prefix the application is mounted under.
	MountPrefix string

	// Authenticate satisfies the document's security requirements.
	// Defaults to accepting everything.
	Authenticate openapi3filter.AuthenticationFunc

	// MaxBodyBytes caps buffered request and response bodies. Requests
	// over the cap go to InvalidRequestHandler with a 413 error; handler
	// responses over the cap go to InvalidResponseHandler.
	MaxBodyBytes int64

	// Logger receives validation failures and recovered panics.
	Logger *slog.Logger
}

// DefaultConfig returns the gate's default configuration: request and
// response validation on, schema served at /swagger.json, UI off.
func DefaultConfig() Config {
	return Config{
		ValidateRequests:  true,
		ValidateResponses: true,
		ServeSchema:       true,
		SchemaSuburl:      DefaultSchemaSuburl,
		UISuburl:          DefaultUISuburl,
		AdjustBasePath:    true,
		MaxBodyBytes:      DefaultMaxBodyBytes,
	}
}
