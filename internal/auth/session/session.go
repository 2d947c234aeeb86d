// Package session resolves the authenticated principal for the current
// request. Absence of a principal is a valid outcome, not an error: the
// caller decides whether "not signed in" matters.
package session

import (
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/better-analytics/dashboard/internal/entity"
)

// CookieName carries the signed session token.
const CookieName = "ba_session"

// Resolver obtains the principal from ambient request state.
type Resolver interface {
	Resolve(r *http.Request) (entity.Principal, bool)
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer}
}

// Issue mints a session token for p.
func (m *Manager) Issue(p entity.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Resolve extracts and verifies the session token from the cookie or a
// bearer header. Missing, malformed or expired tokens all resolve to
// "absent"; none of those conditions is worth surfacing to the caller.
func (m *Manager) Resolve(r *http.Request) (entity.Principal, bool) {
	tok := bearerToken(r)
	if tok == "" {
		if c, err := r.Cookie(CookieName); err == nil {
			tok = c.Value
		}
	}
	if tok == "" {
		return entity.Principal{}, false
	}
	return m.verify(tok)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return tok
	}
	return ""
}

func (m *Manager) verify(tok string) (entity.Principal, bool) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(m.issuer))
	if err != nil || !parsed.Valid || c.Subject == "" {
		return entity.Principal{}, false
	}
	return entity.Principal{ID: c.Subject, Email: c.Email, Role: c.Role}, true
}
