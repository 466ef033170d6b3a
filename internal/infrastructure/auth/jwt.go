package authinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fnb-insights/internal/domain/auth"
)

// JWTIssuer signs and verifies HS256 access tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Claims is the access token payload.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the user.
func (j *JWTIssuer) Issue(user auth.User) (auth.Token, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return auth.Token{}, err
	}
	return auth.Token{AccessToken: signed, ExpiresAt: exp}, nil
}

// ParseAccessToken verifies a token and returns its claims.
func (j *JWTIssuer) ParseAccessToken(token string) (Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !tkn.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}
