package middleware

import (
	"fmt"
	"strings"

	"insight_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuth validates HS256 bearer tokens against a shared secret. With an
// empty secret the middleware is a no-op and the API group stays open.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		header := c.Get("Authorization")
		if header == "" {
			return apperr.Unauthorized("missing authorization header")
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return apperr.InvalidToken("authorization header must be a bearer token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return apperr.InvalidToken("invalid or expired token")
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, _ := claims["sub"].(string); sub != "" {
				c.Locals("subject", sub)
			}
		}

		return c.Next()
	}
}
