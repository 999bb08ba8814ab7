// Package security provides openapi3filter.AuthenticationFunc
// implementations for the security schemes a Swagger document can declare.
package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/golang-jwt/jwt/v5"
)

// KeyCheck reports whether a presented API key is acceptable.
type KeyCheck func(ctx context.Context, key string) bool

// StaticKeys returns a KeyCheck accepting exactly the given keys.
func StaticKeys(keys ...string) KeyCheck {
	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		allowed[k] = struct{}{}
	}
	return func(_ context.Context, key string) bool {
		_, ok := allowed[key]
		return ok
	}
}

// Allow accepts every security requirement. It is the gate's default.
func Allow(_ context.Context, _ *openapi3filter.AuthenticationInput) error {
	return nil
}

// APIKey authenticates apiKey security schemes. The scheme's declared
// parameter name and location (header or query) are read from the document;
// check decides whether the presented key is valid.
func APIKey(check KeyCheck) openapi3filter.AuthenticationFunc {
	return func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
		scheme := input.SecurityScheme
		if scheme == nil || scheme.Type != "apiKey" {
			return fmt.Errorf("security scheme %q is not an apiKey scheme", input.SecuritySchemeName)
		}

		var key string
		switch scheme.In {
		case "header":
			key = input.RequestValidationInput.Request.Header.Get(scheme.Name)
		case "query":
			key = input.RequestValidationInput.Request.URL.Query().Get(scheme.Name)
		default:
			return fmt.Errorf("unsupported apiKey location %q", scheme.In)
		}

		if key == "" {
			return fmt.Errorf("missing API key %q in %s", scheme.Name, scheme.In)
		}
		if !check(ctx, key) {
			return fmt.Errorf("invalid API key")
		}
		return nil
	}
}

// BearerJWT authenticates bearer-token schemes by verifying an HMAC-signed
// JWT from the Authorization header.
func BearerJWT(secret []byte) openapi3filter.AuthenticationFunc {
	return func(_ context.Context, input *openapi3filter.AuthenticationInput) error {
		header := input.RequestValidationInput.Request.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fmt.Errorf("missing bearer token")
		}

		_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			return fmt.Errorf("invalid bearer token: %w", err)
		}
		return nil
	}
}

// Chain dispatches by scheme name: the entry registered for the scheme
// being checked decides; schemes with no entry are rejected.
func Chain(bySchemeName map[string]openapi3filter.AuthenticationFunc) openapi3filter.AuthenticationFunc {
	return func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
		fn, ok := bySchemeName[input.SecuritySchemeName]
		if !ok {
			return fmt.Errorf("no authenticator for security scheme %q", input.SecuritySchemeName)
		}
		return fn(ctx, input)
	}
}

// SignJWT creates an HS256 token with the given claims. Counterpart to
// BearerJWT for tests and examples.
func SignJWT(secret []byte, claims map[string]any) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
