package auth

import (
	"errors"
	"time"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrMissingRole      = errors.New("missing role in claims")
)

// Claims carries the caller identity the identity provider vouches for.
// CompanyID may be empty, in which case the configured default company applies.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	BranchID  string `json:"branch_id,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

// Actor converts the claims into the ledger's caller identity
func (c *Claims) Actor() (access.Actor, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return access.Actor{}, ErrInvalidClaims
	}
	actor := access.Actor{ID: userID, Role: access.Role(c.Role)}
	if c.BranchID != "" {
		branchID, err := uuid.Parse(c.BranchID)
		if err != nil {
			return access.Actor{}, ErrInvalidClaims
		}
		actor.BranchID = &branchID
	}
	return actor, nil
}

// Company returns the company claim, if present
func (c *Claims) Company() (uuid.UUID, bool, error) {
	if c.CompanyID == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return uuid.Nil, false, ErrInvalidClaims
	}
	return id, true, nil
}

// IssueInput describes the token to sign
type IssueInput struct {
	UserID    uuid.UUID
	Role      access.Role
	BranchID  *uuid.UUID
	CompanyID *uuid.UUID
}

// JWTService signs and validates HS256 access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a JWT service from configuration
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs an access token. Production tokens come from the identity
// provider; this serves local tooling and tests.
func (s *JWTService) Issue(input IssueInput) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: input.UserID.String(),
		Role:   string(input.Role),
	}
	if input.BranchID != nil {
		claims.BranchID = input.BranchID.String()
	}
	if input.CompanyID != nil {
		claims.CompanyID = input.CompanyID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies an access token
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if claims.Role == "" {
		return nil, ErrMissingRole
	}
	return claims, nil
}
