// Package server receives the provider's authorization redirect.
//
// # Callback Listener
//
// [CallbackListener] binds a single port on localhost, accepts exactly one connection, reads the
// request line and headers up to the blank line, and answers with a static "you can close this tab"
// page whether or not the request could be parsed. It then closes the socket and cannot be reused.
//
// Accept blocks without a timeout: if the user never completes the consent step in the browser the
// process waits until it is terminated. Once a connection has been accepted, reading it is bounded
// by [ReadTimeout] so a stalled client yields [ErrMalformedRequest] instead of a hang.
//
// # Errors
//
// Failures are reported as [*CallbackError], which matches one of [ErrBindFailed], [ErrAcceptFailed]
// or [ErrMalformedRequest] and the shared callback kind with errors.Is.
//
// # Usage
//
//	req, err := server.Listen(8888)
//	if err != nil {
//		return err
//	}
//	code, ok := req.Params["code"]
package server
