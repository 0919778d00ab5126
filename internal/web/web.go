// Package web holds small helpers shared by every route handler package.
package web

import (
	"errors"

	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ID parses the :id route parameter.
func ID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id parameter")
	}
	return uint(id), nil
}

// Body parses the request body into a raw field map for rule validation.
func Body(c *fiber.Ctx) (map[string]any, error) {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Invalid writes the field-keyed validation response.
func Invalid(c *fiber.Ctx, errs validate.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": errs,
	})
}

// StoreError maps storage sentinels to HTTP errors. notFoundMsg names the
// missing entity for the 404 case.
func StoreError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.Is(err, storage.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "Movement quantity must be positive")
	case errors.Is(err, storage.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusBadRequest, "Insufficient stock for this movement")
	case errors.Is(err, storage.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, "The record was modified concurrently or the transition is not allowed")
	case errors.Is(err, storage.ErrImmutable):
		return fiber.NewError(fiber.StatusConflict, "A signed form cannot be edited")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Operation failed")
	}
}
