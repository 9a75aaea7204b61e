package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// Roles recognised by the platform.
const (
	RoleInfluencer = "influencer"
	RoleBrand      = "brand"
	RoleAdmin      = "admin"
)

// ErrUnauthenticated is returned when a credential is missing, malformed or expired.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Actor is the authenticated caller.
type Actor struct {
	ID    string
	Role  string
	Email string
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleInfluencer, RoleBrand, RoleAdmin:
		return true
	}
	return false
}

// Resolver turns an opaque credential into an Actor.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Actor, error)
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Manager issues and verifies HS256 tokens.
type Manager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewManager constructs a Manager.
func NewManager(signingKey string, ttl time.Duration) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Manager{signingKey: []byte(signingKey), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the actor.
func (m *Manager) Issue(actor Actor) (string, error) {
	if actor.ID == "" || !ValidRole(actor.Role) {
		return "", fmt.Errorf("identity: cannot issue token for %q/%q", actor.ID, actor.Role)
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: actor.ID,
		Email:  actor.Email,
		Role:   actor.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   actor.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	})
	return token.SignedString(m.signingKey)
}

// Resolve verifies the credential. A leading "Bearer " prefix is accepted.
func (m *Manager) Resolve(_ context.Context, credential string) (Actor, error) {
	raw := strings.TrimSpace(credential)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return Actor{}, ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, ErrUnauthenticated
	}
	if claims.UserID == "" || !ValidRole(claims.Role) {
		return Actor{}, ErrUnauthenticated
	}
	return Actor{ID: claims.UserID, Role: claims.Role, Email: claims.Email}, nil
}

type ctxKey struct{}

// WithActor stores the actor in ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext returns the actor stored by WithActor.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}
