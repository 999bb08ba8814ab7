package gate

import (
	"context"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
)

// Data is the per-request validation context: the matched operation and the
// request values that passed validation. It is created at request entry and
// discarded with the request.
type Data struct {
	// Route is the matched specification route.
	Route *routers.Route

	// PathParams holds the values bound to templated path segments.
	PathParams map[string]string

	// Query holds the request's query values.
	Query url.Values

	// Body is the decoded JSON request body, or nil when the request
	// carried none.
	Body any
}

// Operation returns the matched operation, or nil for routes the document
// does not describe.
func (d *Data) Operation() *openapi3.Operation {
	if d == nil || d.Route == nil {
		return nil
	}
	return d.Route.Operation
}

type dataKey struct{}

func contextWithData(ctx context.Context, d *Data) context.Context {
	return context.WithValue(ctx, dataKey{}, d)
}

// RequestData returns the validation context attached to a request by the
// gate, or nil for requests that did not pass through it.
func RequestData(r *http.Request) *Data {
	data, _ := r.Context().Value(dataKey{}).(*Data)
	return data
}

// Operation returns the operation matched for the request, or nil.
func Operation(r *http.Request) *openapi3.Operation {
	return RequestData(r).Operation()
}
