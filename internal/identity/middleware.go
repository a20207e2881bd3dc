package identity

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/intellisort/intellisort/pkg/handlers"
)

// Middleware returns middleware that authenticates every request via the
// verifier and stores the principal in the request context. Requests without
// a valid bearer token are rejected with 401 before reaching any handler.
// Paths listed in exempt pass through unauthenticated.
func Middleware(verifier Verifier, logger *slog.Logger, exempt ...string) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "identity")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrNoToken)
				return
			}

			principal, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
