package gate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/specgate/specgate/pkg/httputil"
)

// Error is an HTTP-mapped error. Returned from JSONHandler functions it
// selects the response status; the default handlers use it internally.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewError creates an Error with the given status code and message.
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsSecurityError reports whether err is a failed security requirement
// rather than a schema violation.
func IsSecurityError(err error) bool {
	switch e := err.(type) {
	case *openapi3filter.SecurityRequirementsError:
		return true
	case openapi3.MultiError:
		for _, sub := range e {
			if IsSecurityError(sub) {
				return true
			}
		}
		return false
	}
	var secErr *openapi3filter.SecurityRequirementsError
	return errors.As(err, &secErr)
}

// defaultInvalidRequestHandler answers 400, or 401 when the failure is an
// unsatisfied security requirement. A typed *Error keeps its own status,
// which carries the 413 for over-limit bodies.
func defaultInvalidRequestHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsSecurityError(err) {
		httputil.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var httpErr *Error
	if errors.As(err, &httpErr) {
		httputil.WriteError(w, httpErr.Code, httpErr.Message)
		return
	}
	httputil.WriteBadRequest(w, err.Error())
}

func defaultInvalidResponseHandler(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteInternalError(w, err.Error())
}

func defaultNotFoundHandler(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteNotFound(w, err.Error())
}

func defaultExceptionHandler(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteInternalError(w, err.Error())
}
