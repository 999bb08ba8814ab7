package gate

import (
	"errors"
	"net/http"

	"github.com/specgate/specgate/pkg/httputil"
)

// JSONFunc is a request handler that returns its result as a value instead
// of writing to the ResponseWriter.
type JSONFunc func(r *http.Request) (any, error)

// JSONHandler adapts fn into an http.Handler that serializes the returned
// value as a JSON response. A returned *Error selects the response status;
// any other error answers 500. A nil value with a nil error answers 204.
func JSONHandler(fn JSONFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r)
		if err != nil {
			var httpErr *Error
			if errors.As(err, &httpErr) {
				httputil.WriteError(w, httpErr.Code, httpErr.Message)
				return
			}
			httputil.WriteInternalError(w, err.Error())
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httputil.WriteOK(w, result)
	})
}
