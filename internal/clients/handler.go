// Package clients manages treatment client records.
package clients

import (
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var clientRules = validate.RuleSet{
	{Field: "first_name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "last_name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "email", Kind: validate.KindString, MaxLen: 100},
	{Field: "phone", Kind: validate.KindString, MaxLen: 50},
	{Field: "date_of_birth", Kind: validate.KindDate},
	{Field: "notes", Kind: validate.KindString, MaxLen: 1000},
}

// POST /api/clients
func CreateClientHandler(store storage.ClientStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(clientRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		client := models.Client{
			FirstName:   validate.Str(fields, "first_name"),
			LastName:    validate.Str(fields, "last_name"),
			Email:       validate.Str(fields, "email"),
			Phone:       validate.Str(fields, "phone"),
			DateOfBirth: validate.TimePtr(fields, "date_of_birth"),
			Notes:       validate.Str(fields, "notes"),
		}
		if err := store.CreateClient(c.Context(), &client); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client could not be created")
		}
		return c.JSON(client)
	}
}

// GET /api/clients
func ListClientsHandler(store storage.ClientStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clients, err := store.ListClients(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients could not be loaded")
		}
		return c.JSON(fiber.Map{"clients": clients, "count": len(clients)})
	}
}

// GET /api/clients/:id
func GetClientHandler(store storage.ClientStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		client, err := store.GetClient(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Client not found")
		}
		return c.JSON(client)
	}
}

// PUT /api/clients/:id
func UpdateClientHandler(store storage.ClientStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(clientRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		client, err := store.UpdateClient(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Client not found")
		}
		return c.JSON(client)
	}
}

// DELETE /api/clients/:id
func DeleteClientHandler(store storage.ClientStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetClient(c.Context(), id); err != nil {
			return web.StoreError(err, "Client not found")
		}
		if err := store.DeleteClient(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Client deleted"})
	}
}
