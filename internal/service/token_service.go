package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultTokenTTL = 168 * time.Hour

// tokenClaims defines the structure of the JWT payload.
type tokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService panics on an empty secret.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID primitive.ObjectID) (string, error) {
	now := s.now()
	claims := &tokenClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id carried by a valid token. Every failure is
// reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (primitive.ObjectID, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyIssuer(s.issuer, s.issuer != "") {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return userID, nil
}
