package handlers

import (
	"log"

	"stocklens/config"

	"github.com/gofiber/fiber/v2"
)

const minPasswordLength = 4

// HandleListPasswordTargets lists the accounts whose passwords can be
// changed.
// GET /api/v1/admin/passwords
func (a *API) HandleListPasswordTargets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"admin":  true,
		"brands": a.Passwords.ConfiguredBrands(),
	})
}

// HandleUpdatePassword changes the admin password or one brand password
// and persists the new set to object storage when configured.
// PUT /api/v1/admin/passwords
func (a *API) HandleUpdatePassword(c *fiber.Ctx) error {
	var req struct {
		Target      string `json:"target"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if len(req.NewPassword) < minPasswordLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Password must be at least 4 characters"})
	}

	var err error
	if req.Target == "admin" {
		err = a.Passwords.SetAdmin(req.NewPassword)
	} else {
		err = a.Passwords.SetBrand(req.Target, req.NewPassword)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	if config.IsStorageEnabled() {
		if sc, err := a.storageClient(c.Context()); err == nil {
			if err := sc.SavePasswords(c.Context(), a.Passwords.Snapshot()); err != nil {
				log.Printf("Failed to persist passwords: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"target": req.Target,
	})
}
