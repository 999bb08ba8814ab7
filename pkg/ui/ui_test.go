package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServeIndex(t *testing.T) {
	u := New(Config{SchemaURL: "/api/swagger.json"})

	for _, target := range []string{"/", "/index.html"} {
		rec := httptest.NewRecorder()
		u.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", target)
		assert.Contains(t, rec.Body.String(), "/api/swagger.json", target)
		assert.Contains(t, rec.Body.String(), "SwaggerUIBundle", target)
	}
}

func TestServeIndexValidatorOff(t *testing.T) {
	u := New(Config{SchemaURL: "/swagger.json"})

	rec := httptest.NewRecorder()
	u.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), "validatorUrl: null")
}

func TestServeIndexValidatorOn(t *testing.T) {
	u := New(Config{SchemaURL: "/swagger.json", ValidatorURL: "https://validator.example.com"})

	rec := httptest.NewRecorder()
	u.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), "validator.example.com")
}

func TestServeAssets(t *testing.T) {
	u := New(Config{SchemaURL: "/swagger.json"})

	rec := httptest.NewRecorder()
	u.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger-ui.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
