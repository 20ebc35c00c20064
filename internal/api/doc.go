// Package api is the typed HTTP client for the cooking-sim remote authority.
//
// Every player-visible action maps to exactly one Client method and exactly
// one HTTP request. The client is stateless between calls: it serialises the
// arguments, sends the request, and decodes the typed response from package
// wire. It performs no retries, no caching, and no local fallback.
//
// # Failures
//
// Every failure is returned as *Error. Transport errors, rejections by the
// authority (non-2xx), and undecodable bodies all share that one type so the
// session layer can record them uniformly.
//
// # Names
//
// Ingredient, provision and item names are normalised to Unicode NFC before
// they are sent. The authority compares names byte-for-byte and some input
// methods produce decomposed kana.
//
// # Tracing
//
// Each call runs inside an OpenTelemetry span named "cooksim.api/<Op>".
// With no tracer provider configured the global no-op provider is used.
package api
