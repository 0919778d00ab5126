// Package booking manages the treatment catalogue and appointment diary.
package booking

import (
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var treatmentRules = validate.RuleSet{
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "category", Kind: validate.KindString, MaxLen: 50},
	{Field: "duration_minutes", Kind: validate.KindInt, Required: true, Min: validate.MinOf(5)},
	{Field: "price", Kind: validate.KindDecimal, Required: true, Min: validate.MinOf(0)},
	{Field: "requires_consent", Kind: validate.KindBool, Default: false},
	{Field: "active", Kind: validate.KindBool, Default: true},
}

// POST /api/treatments
func CreateTreatmentHandler(store storage.TreatmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(treatmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		t := models.Treatment{
			Name:            validate.Str(fields, "name"),
			Category:        validate.Str(fields, "category"),
			DurationMinutes: validate.Int(fields, "duration_minutes"),
			Price:           validate.Dec(fields, "price"),
			RequiresConsent: validate.Bool(fields, "requires_consent"),
			Active:          validate.Bool(fields, "active"),
		}
		if err := store.CreateTreatment(c.Context(), &t); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Treatment could not be created")
		}
		return c.JSON(t)
	}
}

// GET /api/treatments?category=
func ListTreatmentsHandler(store storage.TreatmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		treatments, err := store.ListTreatments(c.Context(), c.Query("category"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Treatments could not be loaded")
		}
		return c.JSON(fiber.Map{"treatments": treatments, "count": len(treatments)})
	}
}

// GET /api/treatments/:id
func GetTreatmentHandler(store storage.TreatmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		t, err := store.GetTreatment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Treatment not found")
		}
		return c.JSON(t)
	}
}

// PUT /api/treatments/:id
func UpdateTreatmentHandler(store storage.TreatmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(treatmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		t, err := store.UpdateTreatment(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Treatment not found")
		}
		return c.JSON(t)
	}
}

// DELETE /api/treatments/:id
func DeleteTreatmentHandler(store storage.TreatmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetTreatment(c.Context(), id); err != nil {
			return web.StoreError(err, "Treatment not found")
		}
		if err := store.DeleteTreatment(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Treatment could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Treatment deleted"})
	}
}
