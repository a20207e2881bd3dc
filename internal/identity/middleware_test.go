package identity_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/intellisort/intellisort/internal/identity"
)

type fakeVerifier struct {
	verifyFn func(ctx context.Context, rawToken string) (identity.Principal, error)
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (identity.Principal, error) {
	return f.verifyFn(ctx, rawToken)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddleware(t *testing.T) {
	verifier := &fakeVerifier{
		verifyFn: func(_ context.Context, rawToken string) (identity.Principal, error) {
			if rawToken != "valid-token" {
				return identity.Principal{}, identity.ErrInvalidToken
			}
			return identity.Principal{Subject: "user-1", Email: "user@example.com"}, nil
		},
	}

	var seen *identity.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := identity.FromContext(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := identity.Middleware(verifier, discardLogger(), "/openapi.json")(next)

	t.Run("valid token stores principal", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if seen == nil || seen.Subject != "user-1" {
			t.Errorf("principal = %v, want user-1", seen)
		}
	})

	t.Run("missing header returns 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("non-bearer scheme returns 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("exempt path skips authentication", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/openapi.json", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if seen != nil {
			t.Errorf("principal = %v, want none on exempt path", seen)
		}
	})
}
