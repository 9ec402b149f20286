// Package client is the single gateway through which the CLI talks to the
// El Embauco backend.
//
// HTTPClient.Call builds the request from a base URL and a path, attaches the
// session's bearer credential, and turns every non-2xx response into an
// *Error. A 401 or 403 also expires the session before the error is returned.
// Do decodes a successful payload into a typed value and checks it against
// its `validate` tags.
//
// # Errors
//
// Every failure is an *Error whose Kind matches one of the sentinels with
// errors.Is:
//
//   - ErrUnauthorized: the backend answered 401 or 403.
//   - ErrAPI: any other non-2xx answer, or a malformed payload.
//   - ErrUnavailable: no answer at all. The session is left alone.
//   - ErrValidation: caller input rejected before anything was sent.
//
// The gateway never retries.
package client
