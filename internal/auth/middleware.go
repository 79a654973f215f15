package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/guides/internal/domain"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID       int64
	Username string
	Role     domain.UserRole
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the request principal, or nil for anonymous requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKey{}).(*Principal)
	return p
}

// UserID returns the principal's ID, or zero for anonymous requests.
func UserID(ctx context.Context) int64 {
	if p := FromContext(ctx); p != nil {
		return p.ID
	}
	return 0
}

// Verifier validates bearer tokens.
type Verifier interface {
	Verify(token string) (*Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Middleware attaches the principal of a valid bearer token to the request
// context. Requests without a token, or with an invalid one, continue
// anonymously; handlers decide whether authentication is required.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			p, err := v.Verify(token)
			if err != nil {
				logger.Debug("ignoring invalid bearer token", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
