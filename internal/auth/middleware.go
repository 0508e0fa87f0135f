package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const nameKey ctxKey = "participant"

// WithName returns ctx carrying the authenticated participant key.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, nameKey, name)
}

// NameFromContext returns the participant key stored by Identify.
func NameFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(nameKey).(string)
	return v, ok && v != ""
}

// Identify resolves the participant from a Bearer token when one is sent.
// Requests without a token pass through and identify themselves by name.
// A present but invalid token is rejected. A nil jwtSvc disables tokens.
func Identify(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if jwtSvc == nil || h == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(h, "Bearer ") {
				unauthorized(w)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			name, err := jwtSvc.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithName(r.Context(), name)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
