package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/archis17/AI-KYC/pkg/handlers"
)

// Principal is the authenticated caller extracted from a verified bearer token.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal carries the given role claim.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal. Exposed for handler tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the authenticated principal from the request context.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// Verifier validates a raw bearer token and resolves its principal.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// ErrUnauthorized indicates a missing or invalid bearer token.
var ErrUnauthorized = errors.New("invalid or missing bearer token")

// Auth returns middleware enforcing bearer-token authentication. When the
// config is disabled, every request proceeds as a local principal with the
// admin role so development environments work without an identity provider.
func Auth(cfg *AuthConfig, verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				p := &Principal{Subject: "local-dev", Roles: []string{RoleAdmin}}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			p, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RoleAdmin grants access to administrative case operations.
const RoleAdmin = "admin"

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

type oidcVerifier struct {
	issuer   string
	audience string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier returns a Verifier backed by OIDC discovery against the
// configured issuer. Discovery is deferred to the first verification so the
// service can start before the identity provider is reachable.
func NewOIDCVerifier(cfg *AuthConfig) Verifier {
	return &oidcVerifier{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

type roleClaims struct {
	Roles []string `json:"roles"`
}

func (o *oidcVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	verifier, err := o.ensure(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var claims roleClaims
	if err := idToken.Claims(&claims); err != nil {
		// roles are optional; a token without them is still a valid principal
		claims.Roles = nil
	}

	return &Principal{
		Subject: idToken.Subject,
		Roles:   claims.Roles,
	}, nil
}

func (o *oidcVerifier) ensure(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.verifier != nil {
		return o.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, o.issuer)
	if err != nil {
		return nil, err
	}

	o.verifier = provider.Verifier(&oidc.Config{ClientID: o.audience})
	return o.verifier, nil
}
