package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Identity is the verified caller behind a bearer credential.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

// Claims is the payload of session tokens. The metadata fields mirror what
// hosted providers such as Supabase put in their access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	Name         string         `json:"name,omitempty"`
	Picture      string         `json:"picture,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// HMAC signs and verifies HS256 tokens with a shared secret.
type HMAC struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewHMAC builds an HS256 signer/verifier. Issuer and audience are optional.
func NewHMAC(secret, issuer, audience string) (*HMAC, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errMissingSecret
	}
	return &HMAC{
		secret:   []byte(secret),
		issuer:   strings.TrimSpace(issuer),
		audience: strings.TrimSpace(audience),
		ttl:      defaultTokenTTL,
		now:      time.Now,
	}, nil
}

// Sign issues a token for the identity.
func (h *HMAC) Sign(id Identity) (string, error) {
	if strings.TrimSpace(id.Subject) == "" {
		return "", errors.New("sub is required")
	}
	now := h.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
		Role:    "authenticated",
	}
	if h.issuer != "" {
		claims.Issuer = h.issuer
	}
	if h.audience != "" {
		claims.Audience = jwt.ClaimStrings{h.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify checks signature, expiry, issuer and audience.
func (h *HMAC) Verify(ctx context.Context, raw string) (Identity, error) {
	_ = ctx
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}
	if h.audience != "" {
		opts = append(opts, jwt.WithAudience(h.audience))
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil || tok == nil || !tok.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}
	if id.Name == "" && claims.UserMetadata != nil {
		if v, ok := claims.UserMetadata["full_name"].(string); ok {
			id.Name = v
		}
	}
	return id, nil
}

// Chain tries each verifier in order and returns the first success.
type Chain []Verifier

// Verify implements Verifier.
func (c Chain) Verify(ctx context.Context, raw string) (Identity, error) {
	if len(c) == 0 {
		return Identity{}, fmt.Errorf("%w: no verifier configured", ErrInvalidToken)
	}
	var lastErr error
	for _, v := range c {
		if v == nil {
			continue
		}
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrInvalidToken
	}
	return Identity{}, lastErr
}

var _ Verifier = (*HMAC)(nil)
