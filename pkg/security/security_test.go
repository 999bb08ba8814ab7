package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiKeyInput(name string, scheme *openapi3.SecurityScheme, r *http.Request) *openapi3filter.AuthenticationInput {
	return &openapi3filter.AuthenticationInput{
		SecuritySchemeName:     name,
		SecurityScheme:         scheme,
		RequestValidationInput: &openapi3filter.RequestValidationInput{Request: r},
	}
}

func TestAllow(t *testing.T) {
	assert.NoError(t, Allow(context.Background(), nil))
}

func TestAPIKeyHeader(t *testing.T) {
	scheme := &openapi3.SecurityScheme{Type: "apiKey", In: "header", Name: "X-API-Key"}
	auth := APIKey(StaticKeys("sekrit"))

	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("X-API-Key", "sekrit")
	assert.NoError(t, auth(context.Background(), apiKeyInput("api_key", scheme, r)))

	r = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("X-API-Key", "wrong")
	assert.Error(t, auth(context.Background(), apiKeyInput("api_key", scheme, r)))

	r = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	assert.Error(t, auth(context.Background(), apiKeyInput("api_key", scheme, r)))
}

func TestAPIKeyQuery(t *testing.T) {
	scheme := &openapi3.SecurityScheme{Type: "apiKey", In: "query", Name: "token"}
	auth := APIKey(StaticKeys("sekrit"))

	r := httptest.NewRequest(http.MethodGet, "http://example.com/?token=sekrit", nil)
	assert.NoError(t, auth(context.Background(), apiKeyInput("api_key", scheme, r)))
}

func TestAPIKeyWrongSchemeType(t *testing.T) {
	scheme := &openapi3.SecurityScheme{Type: "http", Scheme: "basic"}
	auth := APIKey(StaticKeys("sekrit"))

	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	assert.Error(t, auth(context.Background(), apiKeyInput("basic", scheme, r)))
}

func TestBearerJWT(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignJWT(secret, map[string]any{"sub": "user-1"})
	require.NoError(t, err)

	auth := BearerJWT(secret)
	scheme := &openapi3.SecurityScheme{Type: "http", Scheme: "bearer"}

	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	assert.NoError(t, auth(context.Background(), apiKeyInput("bearer", scheme, r)))

	// Wrong secret.
	r = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	other, err := SignJWT([]byte("other"), map[string]any{"sub": "user-1"})
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+other)
	assert.Error(t, auth(context.Background(), apiKeyInput("bearer", scheme, r)))

	// No token at all.
	r = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	assert.Error(t, auth(context.Background(), apiKeyInput("bearer", scheme, r)))
}

func TestChain(t *testing.T) {
	scheme := &openapi3.SecurityScheme{Type: "apiKey", In: "header", Name: "X-API-Key"}
	auth := Chain(map[string]openapi3filter.AuthenticationFunc{
		"api_key": APIKey(StaticKeys("sekrit")),
	})

	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("X-API-Key", "sekrit")
	assert.NoError(t, auth(context.Background(), apiKeyInput("api_key", scheme, r)))

	// Scheme with no registered authenticator is rejected.
	assert.Error(t, auth(context.Background(), apiKeyInput("oauth", scheme, r)))
}
