package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/futig/resomate/internal/entity"
	"github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type ownerKey struct{}

// Auth resolves the bearer token of each request to an owner id. Requests with a missing or unknown
// token are rejected with 401.
func Auth(tokens map[string]string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(r.Context(), w, "missing or malformed authorization header")
				return
			}

			ownerID, ok := tokens[token]
			if !ok || ownerID == "" {
				unauthorized(r.Context(), w, "unknown token")
				return
			}

			ctx := logger.AddFields(r.Context(), zap.String("owner_id", ownerID))
			ctx = WithOwner(ctx, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithOwner stores the caller identity in ctx
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the caller identity set by Auth
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(string)
	return ownerID, ok && ownerID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(ctx context.Context, w http.ResponseWriter, message string) {
	ctxzap.Warn(ctx, "request rejected", zap.String("reason", message))

	w.Header().Set("WWW-Authenticate", `Bearer realm="resomate"`)
	response.Error(w, http.StatusUnauthorized, entity.ErrUnauthenticated.Error())
}
