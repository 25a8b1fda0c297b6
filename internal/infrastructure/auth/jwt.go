// Package auth verifies access tokens minted by the hosted auth provider.
package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/touchline/backend/internal/infrastructure/config"
)

// DefaultAudience is the audience the hosted provider puts on signed-in user tokens
const DefaultAudience = "authenticated"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// AppMetadata holds provider-managed user attributes that users cannot edit
type AppMetadata struct {
	Role     string `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Claims are the claims of a hosted-provider access token
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// Principal is the verified caller
type Principal struct {
	Subject string
	Email   string
	Role    string
	IsAdmin bool
}

// JWTVerifier validates HS256 tokens signed with the provider's shared secret
type JWTVerifier struct {
	secret      []byte
	issuer      string
	audience    string
	adminRoles  []string
	adminEmails []string
	leeway      time.Duration
}

// NewJWTVerifier creates a verifier from configuration
func NewJWTVerifier(cfg config.AuthConfig) *JWTVerifier {
	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	emails := make([]string, 0, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	return &JWTVerifier{
		secret:      []byte(cfg.JWTSecret),
		issuer:      cfg.Issuer,
		audience:    audience,
		adminRoles:  slices.Clone(cfg.AdminRoles),
		adminEmails: emails,
		leeway:      30 * time.Second,
	}
}

// Verify parses and validates a token and returns the caller
func (v *JWTVerifier) Verify(tokenString string) (*Principal, error) {
	if len(v.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.AppMetadata.Role,
		IsAdmin: v.isAdmin(claims),
	}, nil
}

// isAdmin checks app_metadata.role against the admin roles, then the email
// against the allow-list. The top-level role claim is the database role
// ("authenticated") and never grants admin.
func (v *JWTVerifier) isAdmin(c *Claims) bool {
	if c.AppMetadata.Role != "" && slices.Contains(v.adminRoles, c.AppMetadata.Role) {
		return true
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	return email != "" && slices.Contains(v.adminEmails, email)
}

// IssueTokenInput describes a token minted locally
type IssueTokenInput struct {
	Subject string
	Email   string
	AppRole string
	TTL     time.Duration
}

// IssueToken signs a token the verifier accepts. It stands in for the hosted
// provider in tests and local development.
func (v *JWTVerifier) IssueToken(input IssueTokenInput) (string, time.Time, error) {
	if len(v.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	subject := input.Subject
	if subject == "" {
		subject = uuid.New().String()
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    v.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{v.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:       input.Email,
		Role:        DefaultAudience,
		AppMetadata: AppMetadata{Role: input.AppRole, Provider: "email"},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
