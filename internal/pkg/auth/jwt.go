// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/fashion-storefront/internal/config"
)

// TokenType tells access tokens apart from refresh tokens
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const subjectPrefix = "user:"

var (
	// ErrInvalidToken is returned for tokens that fail signature, issuer,
	// expiry or subject checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when a valid token is used for the
	// other purpose
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims are the storefront session claims
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	IsAdmin   bool      `json:"is_admin"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager issues and checks HS256 session tokens
type JWTManager struct {
	secret []byte
	issuer string
	ttl    map[TokenType]time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.App.Name,
		ttl: map[TokenType]time.Duration{
			AccessToken:  cfg.JWT.AccessTokenExpiry,
			RefreshToken: cfg.JWT.RefreshTokenExpiry,
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.App.Name),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
		now: time.Now,
	}
}

// GenerateAccessToken issues a short-lived token for API calls
func (j *JWTManager) GenerateAccessToken(userID, email string, verified, isAdmin bool) (string, error) {
	return j.issue(&Claims{
		UserID:    userID,
		Email:     email,
		Verified:  verified,
		IsAdmin:   isAdmin,
		TokenType: AccessToken,
	})
}

// GenerateRefreshToken issues a long-lived token. Roles are not carried;
// they are re-read from the database when the token is exchanged.
func (j *JWTManager) GenerateRefreshToken(userID, email string) (string, error) {
	return j.issue(&Claims{
		UserID:    userID,
		Email:     email,
		TokenType: RefreshToken,
	})
}

func (j *JWTManager) issue(claims *Claims) (string, error) {
	now := j.now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    j.issuer,
		Subject:   subjectPrefix + claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl[claims.TokenType])),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}
	return signed, nil
}

// ValidateAccessToken parses tokenString and requires an access token
func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, AccessToken)
}

// ValidateRefreshToken parses tokenString and requires a refresh token
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, RefreshToken)
}

func (j *JWTManager) validate(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	if _, err := j.parser.ParseWithClaims(tokenString, claims, j.key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" || claims.Subject != subjectPrefix+claims.UserID {
		return nil, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrWrongTokenType, want, claims.TokenType)
	}
	return claims, nil
}

func (j *JWTManager) key(*jwt.Token) (interface{}, error) {
	return j.secret, nil
}

// ExtractTokenFromHeader returns the bearer token of an Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
