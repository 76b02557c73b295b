package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
// The codec deliberately does not distinguish expired, malformed, or
// wrong-role tokens so callers cannot leak the reason to clients.
var ErrInvalidToken = errors.New("invalid token")

// Default token lifetimes per role.
const (
	AdminTokenExpiry    = 24 * time.Hour
	ArtistTokenExpiry   = 168 * time.Hour
	CustomerTokenExpiry = 168 * time.Hour
)

const issuer = "dollup"

// Claims represents the JWT claims carried by a dollup access token.
type Claims struct {
	ActorID string `json:"actor_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies tokens for exactly one role. Each codec
// signs with a role-scoped secret, so an artist token can never pass
// verification by the admin codec even though both derive from the same
// deployment secret.
type TokenCodec struct {
	role   string
	secret []byte
	expiry time.Duration
}

// NewTokenCodec creates a codec for the given role. The signing key is
// derived as HMAC-SHA256(deploymentSecret, role) rather than used raw.
func NewTokenCodec(role, deploymentSecret string, expiry time.Duration) (*TokenCodec, error) {
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("token codec: unknown role %q", role)
	}
	if deploymentSecret == "" {
		return nil, errors.New("token codec: empty secret")
	}

	mac := hmac.New(sha256.New, []byte(deploymentSecret))
	mac.Write([]byte(role))

	return &TokenCodec{
		role:   role,
		secret: mac.Sum(nil),
		expiry: expiry,
	}, nil
}

// Role returns the role this codec issues tokens for.
func (c *TokenCodec) Role() string {
	return c.role
}

// Issue creates a signed token for the given actor.
func (c *TokenCodec) Issue(actorID, email string) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		ActorID: actorID,
		Email:   email,
		Role:    c.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning its claims. Any failure,
// including a role mismatch inside otherwise valid claims, yields ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != c.role || claims.ActorID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
