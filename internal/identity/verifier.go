package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/intellisort/intellisort/pkg/lifecycle"
)

// Verifier validates a raw bearer token and resolves it to a principal.
// The OIDC implementation is the production path; tests substitute fakes.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Principal, error)
}

// System manages the OIDC token verifier and its lifecycle.
type System interface {
	Verifier
	// Start registers a startup hook that performs OIDC discovery against the
	// configured issuer.
	Start(lc *lifecycle.Coordinator) error
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

const adminRole = "admin"

type oidcSystem struct {
	issuer   string
	clientID string
	logger   *slog.Logger

	mu       sync.RWMutex
	verifier *oidc.IDTokenVerifier
}

// New creates an OIDC identity system from the given configuration.
// Discovery is deferred until Start so construction performs no network I/O.
func New(cfg *Config, logger *slog.Logger) System {
	return &oidcSystem{
		issuer:   cfg.Issuer,
		clientID: cfg.ClientID,
		logger:   logger.With("system", "identity"),
	}
}

func (s *oidcSystem) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting identity system", "issuer", s.issuer)

	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), s.issuer)
		if err != nil {
			s.logger.Error("oidc discovery failed", "issuer", s.issuer, "error", err)
			return
		}

		s.mu.Lock()
		s.verifier = provider.Verifier(&oidc.Config{ClientID: s.clientID})
		s.mu.Unlock()

		s.logger.Info("identity provider ready", "issuer", s.issuer)
	})

	return nil
}

func (s *oidcSystem) Verify(ctx context.Context, rawToken string) (Principal, error) {
	s.mu.RLock()
	verifier := s.verifier
	s.mu.RUnlock()

	if verifier == nil {
		return Principal{}, ErrNotReady
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var c claims
	if err := token.Claims(&c); err != nil {
		return Principal{}, fmt.Errorf("%w: parse claims: %v", ErrInvalidToken, err)
	}

	return Principal{
		Subject: token.Subject,
		Email:   c.Email,
		Admin:   c.Role == adminRole,
	}, nil
}
