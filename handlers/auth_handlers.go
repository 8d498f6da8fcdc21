package handlers

import (
	"log"
	"time"

	"stocklens/config"
	"stocklens/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const sessionDuration = 24 * time.Hour

// HandleLogin authenticates a shared password and returns a JWT scoped
// to the brands that password may see.
// POST /api/v1/auth/login
func (a *API) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Password is required"})
	}

	access, ok := a.Passwords.Check(req.Password)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid password"})
	}

	claims := &models.JwtClaims{
		IsAdmin: access.IsAdmin,
		Brands:  access.Brands,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create session"})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"token":  signed,
		"access": access,
	})
}
