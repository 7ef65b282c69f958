package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClaimsData identifies the account a token belongs to
type ClaimsData struct {
	ID string `json:"_id"`
}

// Claims is the signed token payload
type Claims struct {
	Data ClaimsData `json:"data"`
	jwt.RegisteredClaims
}

// Signer is the integrity and expiry layer of a token (HS256)
type Signer struct {
	secret []byte
}

// NewSigner creates a signer for the given HMAC secret
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign produces a compact JWT for accountID expiring at expiresAt
func (s *Signer) Sign(accountID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := Claims{
		Data: ClaimsData{ID: accountID.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of tokenString as of now. Expired
// tokens yield ErrTokenExpired, every other failure ErrTokenSignature.
func (s *Signer) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenSignature, err)
	}
	return claims, nil
}
