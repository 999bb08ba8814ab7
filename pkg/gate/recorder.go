package gate

import (
	"bytes"
	"net/http"
)

// responseRecorder buffers the wrapped handler's response so it can be
// validated before anything reaches the client. Nothing is written through
// until flush is called. Buffering stops at limit bytes; an overrun marks
// the recorder truncated and the gate treats that as a validation failure.
type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
	limit       int64
	truncated   bool
}

func newResponseRecorder(limit int64) *responseRecorder {
	return &responseRecorder{
		header:     make(http.Header),
		statusCode: http.StatusOK,
		limit:      limit,
	}
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = code
	r.wroteHeader = true
}

// Write reports the full length as written so the wrapped handler does not
// see short writes; bytes past the limit are dropped.
func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.truncated {
		return len(b), nil
	}
	if remaining := r.limit - int64(r.body.Len()); int64(len(b)) > remaining {
		r.truncated = true
		r.body.Write(b[:remaining])
		return len(b), nil
	}
	return r.body.Write(b)
}

// flush replays the recorded response onto the real writer.
func (r *responseRecorder) flush(w http.ResponseWriter) {
	for k, vv := range r.header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.statusCode)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
