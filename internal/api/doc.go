// Package api turns declarative endpoint descriptions into HTTP calls.
//
// # Specs
//
// A [Spec] names the method, path, query parameters and JSON body of one operation. Its type
// parameter is the response shape; it never performs I/O itself:
//
//	func Pause() api.Spec[api.NoResponse] {
//		return api.Spec[api.NoResponse]{Method: http.MethodPut, Path: "me/player/pause"}
//	}
//
// Two sentinel response types cover endpoints without a fixed payload. [NoResponse] accepts any
// body, including an empty one. [Optional] decodes permissively: an empty body, a JSON null or a
// body that does not fit the wrapped type all produce an absent value instead of an error.
//
// # Dispatch
//
// [Dispatch] resolves the URL against the [Dispatcher] base, attaches the Authorization header from
// its [Authorizer], sends the request and classifies the result:
//
//   - [*TransportError]: the request could not be sent
//   - [*StatusError]: a non-2xx response, carrying the status code and raw body
//   - [*ExtractionError]: the body could not be decoded into the response type
//
// There are no retries and no backoff. [NewHTTPClient] can pace requests client-side with a token
// bucket, which only delays sends.
package api
