package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/tidyhouse/internal/auth"
)

// OwnerHeader carries the owner id set by the authenticating proxy.
const OwnerHeader = "X-Owner-ID"

// RequireOwner rejects requests without an owner id and stores the id in the
// request context for handlers to read with auth.OwnerID.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if ownerID == "" {
			// Browsers cannot set headers on websocket upgrades.
			ownerID = strings.TrimSpace(r.URL.Query().Get("owner"))
		}
		if ownerID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"missing owner id"}` + "\n"))
			return
		}
		ctx := auth.WithOwner(r.Context(), ownerID)
		noteContext(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerKey keys rate limits by owner, falling back to the client IP.
func OwnerKey(r *http.Request) string {
	if id := auth.OwnerID(r.Context()); id != "" {
		return "owner:" + id
	}
	return "ip:" + RealIP(r)
}
