package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"asset-tracking-backend/config"
	"asset-tracking-backend/internal/model"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid or expired")
	ErrWrongTokenType = errors.New("token has wrong type")
	ErrRevokedToken   = errors.New("token is blacklisted")
)

// Claims is the JWT payload shared by both token types.
type Claims struct {
	UserID    int64     `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	Role      string    `json:"role,omitempty"`
	Username  string    `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Extra holds the custom claims copied into both tokens of a pair.
type Extra struct {
	Role     string
	Username string
}

// Pair is what the login and token endpoints hand back.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer signs and verifies HS256 tokens and tracks revoked refresh tokens.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    *cache.Cache
	now        func() time.Time
}

// NewTokenIssuer creates an issuer from the auth configuration.
func NewTokenIssuer(cfg *config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.SecretKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		revoked:    cache.New(cfg.RefreshTokenTTL, 10*time.Minute),
		now:        time.Now,
	}
}

// IssuePair signs a refresh token for u and an access token carrying the same custom claims.
func (t *TokenIssuer) IssuePair(u *model.User, extra Extra) (Pair, error) {
	refresh, err := t.sign(u.ID, RefreshToken, extra, t.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	access, err := t.sign(u.ID, AccessToken, extra, t.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token and mints a new access token from its claims.
func (t *TokenIssuer) Refresh(refreshToken string) (string, error) {
	claims, err := t.Parse(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	return t.sign(claims.UserID, AccessToken, Extra{Role: claims.Role, Username: claims.Username}, t.accessTTL)
}

// Revoke blacklists a refresh token until it would have expired anyway.
func (t *TokenIssuer) Revoke(refreshToken string) error {
	claims, err := t.Parse(refreshToken, RefreshToken)
	if err != nil {
		return err
	}
	remaining := claims.ExpiresAt.Sub(t.now())
	if remaining <= 0 {
		return nil
	}
	t.revoked.Set(claims.ID, struct{}{}, remaining)
	return nil
}

// Parse verifies signature, expiry and type, and rejects revoked refresh tokens.
func (t *TokenIssuer) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	if want == RefreshToken {
		if _, found := t.revoked.Get(claims.ID); found {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}

func (t *TokenIssuer) sign(userID int64, typ TokenType, extra Extra, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		Role:      extra.Role,
		Username:  extra.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
