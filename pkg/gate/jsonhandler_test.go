package gate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONHandlerWritesResult(t *testing.T) {
	h := JSONHandler(func(r *http.Request) (any, error) {
		return map[string]any{"id": 1, "name": "rex"}, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets/1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id": 1, "name": "rex"}`, rec.Body.String())
}

func TestJSONHandlerNilResult(t *testing.T) {
	h := JSONHandler(func(r *http.Request) (any, error) {
		return nil, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/pets/1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestJSONHandlerTypedError(t *testing.T) {
	h := JSONHandler(func(r *http.Request) (any, error) {
		return nil, NewError(http.StatusConflict, "pet %q already exists", "rex")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pets", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"code": 409, "message": "pet \"rex\" already exists"}`, rec.Body.String())
}

func TestJSONHandlerPlainError(t *testing.T) {
	h := JSONHandler(func(r *http.Request) (any, error) {
		return nil, errors.New("database offline")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code": 500, "message": "database offline"}`, rec.Body.String())
}
