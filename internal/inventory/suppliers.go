package inventory

import (
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

var supplierRules = validate.RuleSet{
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "contact_name", Kind: validate.KindString, MaxLen: 100},
	{Field: "email", Kind: validate.KindString, MaxLen: 100},
	{Field: "phone", Kind: validate.KindString, MaxLen: 50},
	{Field: "notes", Kind: validate.KindString, MaxLen: 500},
}

// POST /api/suppliers
func CreateSupplierHandler(store storage.SupplierStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(supplierRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		supplier := models.Supplier{
			Name:        validate.Str(fields, "name"),
			ContactName: validate.Str(fields, "contact_name"),
			Email:       validate.Str(fields, "email"),
			Phone:       validate.Str(fields, "phone"),
			Notes:       validate.Str(fields, "notes"),
		}
		if err := store.CreateSupplier(c.Context(), &supplier); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be created")
		}
		return c.JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler(store storage.SupplierStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		suppliers, err := store.ListSuppliers(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppliers could not be loaded")
		}
		return c.JSON(fiber.Map{"suppliers": suppliers, "count": len(suppliers)})
	}
}

// GET /api/suppliers/:id
func GetSupplierHandler(store storage.SupplierStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		supplier, err := store.GetSupplier(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Supplier not found")
		}
		return c.JSON(supplier)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler(store storage.SupplierStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(supplierRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		supplier, err := store.UpdateSupplier(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Supplier not found")
		}
		return c.JSON(supplier)
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler(store storage.SupplierStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetSupplier(c.Context(), id); err != nil {
			return web.StoreError(err, "Supplier not found")
		}
		if err := store.DeleteSupplier(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Supplier deleted"})
	}
}
