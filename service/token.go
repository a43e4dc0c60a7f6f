package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

func (s *Service) CreateJWT(userId string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId,
		"exp":     s.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// VerifyJWT checks signature, algorithm and expiry and returns the user id
// carried by the token. Every failure wraps ErrUnauthorized.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	if len(tokenString) == 0 {
		return "", fmt.Errorf("%w: token not provided", ErrUnauthorized)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.JWTSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if !token.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}

	userId, _ := claims["user_id"].(string)
	if userId == "" {
		return "", fmt.Errorf("%w: missing user_id claim", ErrUnauthorized)
	}

	return userId, nil
}
