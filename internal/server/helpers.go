package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"platefeed/internal/models"
)

// respondError maps an application error onto its HTTP status and writes the
// standard error body.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// paramUint parses a positive integer route parameter.
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(v), nil
}

// paramInt parses a positive integer route parameter as int.
func paramInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Params(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return v, nil
}
