package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TenantHeader is the request header carrying the tenant (account) UUID.
// Every data route requires it; the tenant is resolved here once and passed
// down explicitly, never re-derived deeper in the stack.
const TenantHeader = "X-Tenant-ID"

type tenantKey struct{}

// NewTenantHandler returns a middleware that parses the tenant header and
// stores the UUID in the request context. Requests with a missing or
// malformed header are rejected with 400 before reaching any handler.
func NewTenantHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TenantHeader)
			if raw == "" {
				http.Error(w, "missing "+TenantHeader+" header", http.StatusBadRequest)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "malformed "+TenantHeader+" header", http.StatusBadRequest)
				return
			}
			ctx := context.WithValue(r.Context(), tenantKey{}, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFrom returns the tenant UUID stored by NewTenantHandler.
// The second return is false when the middleware did not run (e.g. on
// routes mounted outside the tenant group).
func TenantFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantKey{}).(uuid.UUID)
	return id, ok
}
