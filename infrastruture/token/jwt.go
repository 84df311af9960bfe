package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/dgrijalva/jwt-go"
)

// Claim names set on every operator token.
const (
	ClaimOperatorID   = "operatorID"
	ClaimOperatorName = "operatorName"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("token issued by another service")
)

// JwtService handles JWT operations.
// Implements i.Tokenizer.
type JwtService struct {
	secretKey string
	issuer    string
	now       func() time.Time
}

// NewJwtService creates a new JWT Service signing with secretKey. Tokens it
// did not issue are rejected by Decode.
func NewJwtService(secretKey, issuer string) i.Tokenizer {
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
		now:       time.Now,
	}
}

// Generate creates a JWT for the given claims.
func (s *JwtService) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	issuedAt := s.now().UTC()
	jwtClaims := jwt.MapClaims{
		"iss": s.issuer,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(expTime).Unix(),
	}
	for key, val := range claims {
		if _, reserved := jwtClaims[key]; reserved {
			return "", fmt.Errorf("claim %q is reserved", key)
		}
		jwtClaims[key] = val
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(s.secretKey))
}

// Decode parses and validates a JWT, returning the claims if valid.
func (s *JwtService) Decode(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrInvalidIssuer
	}
	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return []byte(s.secretKey), nil
}

// OperatorName extracts the operator name from decoded claims.
func OperatorName(claims map[string]interface{}) (string, bool) {
	name, ok := claims[ClaimOperatorName].(string)
	return name, ok && name != ""
}
