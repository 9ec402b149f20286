package client

import (
	"context"
	"encoding/json"
)

// Do performs a call and decodes the payload into T. The decoded value must
// satisfy its `validate` tags; a payload of the wrong shape is an ErrAPI
// failure rather than a zero-valued success.
func Do[T any](ctx context.Context, c Caller, path string, opts CallOptions) (T, error) {
	var zero T

	raw, err := c.Call(ctx, path, opts)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &Error{Kind: KindAPI, Path: path, Message: "malformed response", Cause: err}
	}
	if err := checkSchema(out); err != nil {
		return zero, &Error{Kind: KindAPI, Path: path, Message: "unexpected response", Cause: err}
	}
	return out, nil
}
