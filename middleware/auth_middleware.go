package middleware

import (
	"errors"
	"strings"

	"stocklens/config"
	"stocklens/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// JWTMiddleware verifies the bearer token and stores the claims for the
// downstream handlers.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader { // No "Bearer " prefix
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid token format"})
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(*models.JwtClaims)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to parse token claims"})
	}

	c.Locals("claims", claims)
	return c.Next()
}

// AdminRequired rejects non-admin sessions.
func AdminRequired(c *fiber.Ctx) error {
	claims, err := ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	if !claims.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Admin access required"})
	}
	return c.Next()
}

// ExtractClaims returns the verified claims stored by JWTMiddleware.
func ExtractClaims(c *fiber.Ctx) (*models.JwtClaims, error) {
	claims, ok := c.Locals("claims").(*models.JwtClaims)
	if !ok || claims == nil {
		return nil, errors.New("no claims in context")
	}
	return claims, nil
}

// CanAccessBrand reports whether the session may read one brand's data.
// Brand names compare case-insensitively; admins see everything.
func CanAccessBrand(claims *models.JwtClaims, brand string) bool {
	if claims == nil {
		return false
	}
	if claims.IsAdmin {
		return true
	}
	for _, b := range claims.Brands {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	return false
}
