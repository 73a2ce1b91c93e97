package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
)

// ErrUnauthorized is returned when no credential on the request is valid.
var ErrUnauthorized = errors.New("unauthorized")

// Identity describes the authenticated caller.
type Identity struct {
	Email  string
	Name   string
	Method string // "dev", "shared_secret" or "bearer"
}

// Validator checks request credentials. Three mechanisms are supported:
// a dev-mode bypass, a shared secret in X-Api-Key, and OIDC bearer
// tokens verified against the configured issuer.
type Validator struct {
	devMode      bool
	sharedSecret string
	verifier     *oidc.IDTokenVerifier
	logger       *slog.Logger
}

func NewValidator(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (*Validator, error) {
	v := &Validator{
		devMode:      cfg.DevMode,
		sharedSecret: cfg.SharedSecret,
		logger:       logger,
	}

	if cfg.IssuerURL != "" {
		provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
		v.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.Audience})
	}

	if cfg.DevMode {
		logger.Warn("auth dev mode enabled, all requests are accepted")
	}

	return v, nil
}

// Authenticate validates the credentials on r.
func (v *Validator) Authenticate(r *http.Request) (*Identity, error) {
	if v.devMode {
		return &Identity{Email: "dev@localhost", Method: "dev"}, nil
	}

	if key := r.Header.Get("X-Api-Key"); key != "" && v.sharedSecret != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(v.sharedSecret)) == 1 {
			return &Identity{Method: "shared_secret"}, nil
		}
		return nil, fmt.Errorf("%w: invalid api key", ErrUnauthorized)
	}

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if v.verifier == nil {
			return nil, fmt.Errorf("%w: bearer tokens not configured", ErrUnauthorized)
		}
		return v.verifyBearer(r.Context(), strings.TrimPrefix(header, "Bearer "))
	}

	return nil, fmt.Errorf("%w: no credentials", ErrUnauthorized)
}

func (v *Validator) verifyBearer(ctx context.Context, rawToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse claims: %v", ErrUnauthorized, err)
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}

	return &Identity{Email: email, Name: claims.Name, Method: "bearer"}, nil
}
