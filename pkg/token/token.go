package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"bookmart/pkg/domain"
)

const (
	defaultIssuer   = "bookmart-auth"
	defaultAudience = "bookmart-api"
	defaultTTL      = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for any token that fails verification,
// regardless of the underlying cause.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the decoded proof of who the caller is. It is passed explicitly
// into every operation that needs an authenticated requester.
type Identity struct {
	UserID string
	Email  string
}

// Options configures token issuance and verification.
type Options struct {
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Manager issues and verifies HS256 identity tokens signed with a server-held
// secret. Verification requires no database round-trip and tolerates no clock
// skew: a token expired by one second is rejected.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewManager builds a token manager from the signing secret.
func NewManager(secret string, opts Options) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret required")
	}
	opts = normalizeOptions(opts)
	return &Manager{
		secret:   []byte(secret),
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      opts.TTL,
	}, nil
}

// Issue creates a signed token carrying the user's id and email.
func (m *Manager) Issue(user domain.User) (string, error) {
	now := time.Now().UTC()
	c := claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        randomHexID(12),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify checks signature, issuer, audience and expiry and returns the
// embedded identity. All failures collapse into ErrInvalidToken.
func (m *Manager) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}
	c := claims{}
	parsed, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	userID := strings.TrimSpace(c.Subject)
	if userID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Email: c.Email}, nil
}

func randomHexID(nBytes int) string {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}

func normalizeOptions(opts Options) Options {
	opts.Issuer = strings.TrimSpace(opts.Issuer)
	opts.Audience = strings.TrimSpace(opts.Audience)
	if opts.Issuer == "" {
		opts.Issuer = defaultIssuer
	}
	if opts.Audience == "" {
		opts.Audience = defaultAudience
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return opts
}
