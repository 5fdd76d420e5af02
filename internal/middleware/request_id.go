// Package middleware provides Connect interceptors for request tracing,
// logging and metrics.
package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// RequestIDKey is the context key for storing the request ID.
const RequestIDKey contextKey = "request_id"

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns an interceptor that tags every call with an ID. The
// client's X-Request-Id is kept when present, otherwise a new UUID is used.
// The ID is echoed in the response header, or in the error metadata when
// the call fails.
func RequestID() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			resp, err := next(WithRequestID(ctx, id), req)
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					connectErr.Meta().Set(RequestIDHeader, id)
				}
				return nil, err
			}
			resp.Header().Set(RequestIDHeader, id)
			return resp, nil
		}
	}
}
