// Package gate wires Swagger/OpenAPI schema validation into the net/http
// request/response lifecycle.
//
// A Gate wraps any http.Handler. For each request it matches the path and
// method against the operations of a loaded specification document, validates
// the incoming request against the matched operation, exposes the validated
// parameters on the request context, and validates the handler's response
// before it is sent. Schema validation itself is delegated to
// github.com/getkin/kin-openapi; the gate supplies the interception glue and
// the default error-to-status mapping.
//
// # Basic Usage
//
//	doc, err := swagger.LoadFile("swagger.yaml", swagger.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := gate.New(doc, gate.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", g.Wrap(mux))
//
// Handlers read the validated request data from the context:
//
//	func getPet(w http.ResponseWriter, r *http.Request) {
//	    data := gate.RequestData(r)
//	    id := data.PathParams["id"]
//	    ...
//	}
//
// # Error Mapping
//
// Request validation failures answer 400, response validation failures and
// recovered panics answer 500, and requests under the API base path that
// match no operation answer 404. Every mapping is replaceable through the
// handler fields of Config.
package gate
