package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxLoggedPayload = 2048

// payloadContextKey carries the encoded request body to the logging transport
type payloadContextKey struct{}

var redactedHeaders = []string{"Authorization", "Cookie"}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", redact(req.Header)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		if len(payload) > maxLoggedPayload {
			fields = append(fields, zap.ByteString("payload", payload[:maxLoggedPayload]), zap.Int("payload_size", len(payload)))
		} else {
			fields = append(fields, zap.ByteString("payload", payload))
		}
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)

	result := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", append(result, zap.Error(err))...)
		return nil, err
	}
	ctxzap.Debug(ctx, "HTTP outbound response", append(result, zap.Int("status", resp.StatusCode))...)

	return resp, nil
}

func redact(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range redactedHeaders {
		if out.Get(name) != "" {
			out.Set(name, "[redacted]")
		}
	}
	return out
}

// WithRequestLogging logs each outbound request with its payload and the outcome at debug level.
// Credentials in headers are redacted.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
