package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/trails-backend-go/pkg/response"
)

// SubjectKey is the gin context key holding the authenticated token subject
const SubjectKey = "subject"

const tokenIssuer = "trails-backend"

// JWT validates HS256 bearer tokens and stores the subject in the context
func JWT(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)

	return func(c *gin.Context) {
		token := bearerFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
		if err != nil || !parsed.Valid {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

// NewToken issues an HS256 token for subject, valid for ttl
func NewToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
