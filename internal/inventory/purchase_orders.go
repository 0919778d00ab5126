package inventory

import (
	"clinicpro-backend/internal/audit"
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var purchaseOrderRules = validate.RuleSet{
	{Field: "supplier_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "notes", Kind: validate.KindString, MaxLen: 500},
}

var purchaseOrderLineRules = validate.RuleSet{
	{Field: "item_id", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "quantity", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "unit_cost", Kind: validate.KindDecimal, Min: validate.MinOf(0)},
}

var purchaseOrderStatusRules = validate.RuleSet{
	{Field: "status", Kind: validate.KindEnum, Required: true, Values: []string{"ordered", "received", "cancelled"}},
}

// POST /api/purchase-orders
func CreatePurchaseOrderHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(purchaseOrderRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		rawLines, ok := raw["items"].([]any)
		if !ok || len(rawLines) == 0 {
			return web.Invalid(c, validate.FieldErrors{"items": "must be a non-empty array"})
		}

		lines := make([]models.PurchaseOrderItem, 0, len(rawLines))
		for _, rl := range rawLines {
			lineMap, ok := rl.(map[string]any)
			if !ok {
				return web.Invalid(c, validate.FieldErrors{"items": "each entry must be an object"})
			}
			lf, lerrs := validate.Apply(purchaseOrderLineRules, lineMap)
			if lerrs != nil {
				return web.Invalid(c, lerrs)
			}
			itemID := validate.Uint(lf, "item_id")
			if _, err := store.GetItem(c.Context(), itemID); err != nil {
				return web.StoreError(err, "Item not found")
			}
			lines = append(lines, models.PurchaseOrderItem{
				ItemID:   itemID,
				Quantity: validate.Int(lf, "quantity"),
				UnitCost: validate.Dec(lf, "unit_cost"),
			})
		}

		po := models.PurchaseOrder{
			Reference:  uuid.NewString(),
			SupplierID: validate.Uint(fields, "supplier_id"),
			Status:     models.PurchaseOrderDraft,
			Notes:      validate.Str(fields, "notes"),
			Items:      lines,
		}
		if err := store.CreatePurchaseOrder(c.Context(), &po); err != nil {
			return web.StoreError(err, "Supplier not found")
		}
		return c.JSON(po)
	}
}

// GET /api/purchase-orders?status=
func ListPurchaseOrdersHandler(store storage.PurchaseOrderStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := store.ListPurchaseOrders(c.Context(), models.PurchaseOrderStatus(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Purchase orders could not be loaded")
		}
		return c.JSON(fiber.Map{"purchase_orders": orders, "count": len(orders)})
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler(store storage.PurchaseOrderStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		po, err := store.GetPurchaseOrder(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Purchase order not found")
		}
		return c.JSON(po)
	}
}

// PUT /api/purchase-orders/:id/status
// Receiving an order books an "in" movement for every line, so received stock
// lands in the ledger like any other movement.
func SetPurchaseOrderStatusHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(purchaseOrderStatusRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}
		status := models.PurchaseOrderStatus(validate.Str(fields, "status"))

		// Every ordered item must still exist before the order can be
		// received, otherwise the transition is rejected with nothing booked.
		if status == models.PurchaseOrderReceived {
			current, err := store.GetPurchaseOrder(c.Context(), id)
			if err != nil {
				return web.StoreError(err, "Purchase order not found")
			}
			for _, line := range current.Items {
				if _, err := store.GetItem(c.Context(), line.ItemID); err != nil {
					return web.StoreError(err, "An ordered item no longer exists")
				}
			}
		}

		po, err := store.SetPurchaseOrderStatus(c.Context(), id, status)
		if err != nil {
			return web.StoreError(err, "Purchase order not found")
		}

		actorID, _ := auth.CurrentUserID(c)
		if status == models.PurchaseOrderReceived {
			for _, line := range po.Items {
				_, err := store.RecordMovement(c.Context(), storage.MovementParams{
					ItemID:    line.ItemID,
					Type:      models.MovementIn,
					Quantity:  line.Quantity,
					Reason:    "purchase order received",
					Reference: po.Reference,
					ActorID:   actorID,
				})
				if err != nil {
					log.Error("goods-in movement failed",
						zap.Uint("purchase_order_id", po.ID),
						zap.Uint("item_id", line.ItemID),
						zap.Error(err))
					return web.StoreError(err, "An ordered item no longer exists")
				}
			}
		}

		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionUpdate,
			Description: "purchase order " + po.Reference + " moved to " + string(status),
			After:       po,
		})

		return c.JSON(po)
	}
}
