// Package inventory manages stock items, their movement ledger, suppliers and
// purchase orders.
package inventory

import (
	"time"

	"clinicpro-backend/internal/alerts"
	"clinicpro-backend/internal/audit"
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var itemRules = validate.RuleSet{
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "sku", Kind: validate.KindString, Required: true, MaxLen: 50},
	{Field: "category", Kind: validate.KindString, MaxLen: 50},
	{Field: "location", Kind: validate.KindString, MaxLen: 50},
	{Field: "unit", Kind: validate.KindString, Required: true, MaxLen: 20},
	{Field: "current_stock", Kind: validate.KindInt, Min: validate.MinOf(0), Default: 0},
	{Field: "min_stock_level", Kind: validate.KindInt, Min: validate.MinOf(0), Default: 0},
	{Field: "max_stock_level", Kind: validate.KindInt, Min: validate.MinOf(0), Default: 0},
	{Field: "expiry_date", Kind: validate.KindDate},
	{Field: "unit_cost", Kind: validate.KindDecimal, Min: validate.MinOf(0)},
	{Field: "supplier_id", Kind: validate.KindInt, Min: validate.MinOf(1)},
}

var movementRules = validate.RuleSet{
	{Field: "type", Kind: validate.KindEnum, Required: true, Values: []string{"in", "out", "adjustment"}},
	{Field: "quantity", Kind: validate.KindInt, Required: true, Min: validate.MinOf(1)},
	{Field: "reason", Kind: validate.KindString, Required: true, MaxLen: 255},
	{Field: "reference", Kind: validate.KindString, MaxLen: 100},
}

const (
	stockOK  = "ok"
	stockLow = "low"
	stockOut = "out"
)

// itemView adds the read-time fields derived from the wall clock. They are
// never persisted.
type itemView struct {
	models.InventoryItem
	StockStatus  string `json:"stock_status"`
	IsExpired    bool   `json:"is_expired"`
	DaysToExpiry *int   `json:"days_to_expiry"`
}

func viewItem(item models.InventoryItem, now time.Time) itemView {
	v := itemView{InventoryItem: item, StockStatus: stockOK}
	switch {
	case item.CurrentStock == 0:
		v.StockStatus = stockOut
	case item.CurrentStock <= item.MinStockLevel:
		v.StockStatus = stockLow
	}
	if item.ExpiryDate != nil {
		days := int(item.ExpiryDate.Sub(now).Hours() / 24)
		v.DaysToExpiry = &days
		v.IsExpired = days < 0
	}
	return v
}

// POST /api/inventory
func CreateItemHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(itemRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		item := models.InventoryItem{
			Name:          validate.Str(fields, "name"),
			SKU:           validate.Str(fields, "sku"),
			Category:      validate.Str(fields, "category"),
			Location:      validate.Str(fields, "location"),
			Unit:          validate.Str(fields, "unit"),
			CurrentStock:  validate.Int(fields, "current_stock"),
			MinStockLevel: validate.Int(fields, "min_stock_level"),
			MaxStockLevel: validate.Int(fields, "max_stock_level"),
			ExpiryDate:    validate.TimePtr(fields, "expiry_date"),
			UnitCost:      validate.Dec(fields, "unit_cost"),
			SupplierID:    validate.UintPtr(fields, "supplier_id"),
		}
		if err := store.CreateItem(c.Context(), &item); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item could not be created")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "created inventory item " + item.Name,
			After:       item,
		})

		return c.JSON(viewItem(item, time.Now()))
	}
}

// GET /api/inventory/:id
func GetItemHandler(store storage.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		item, err := store.GetItem(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Item not found")
		}
		return c.JSON(viewItem(*item, time.Now()))
	}
}

// GET /api/inventory?category=&location=&supplierId=&lowStock=true&expired=true
// lowStock and expired are conjunctive with the stored filters and are applied
// to the derived fields after loading.
func ListItemsHandler(store storage.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.ItemFilter{
			Category:   c.Query("category"),
			Location:   c.Query("location"),
			SupplierID: uint(c.QueryInt("supplierId")),
		}
		items, err := store.ListItems(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Items could not be loaded")
		}

		now := time.Now()
		lowOnly := c.Query("lowStock") == "true"
		expiredOnly := c.Query("expired") == "true"

		views := make([]itemView, 0, len(items))
		for _, item := range items {
			v := viewItem(item, now)
			if lowOnly && v.StockStatus == stockOK {
				continue
			}
			if expiredOnly && !v.IsExpired {
				continue
			}
			views = append(views, v)
		}
		return c.JSON(fiber.Map{"items": views, "count": len(views)})
	}
}

// PUT /api/inventory/:id
// current_stock is not editable here; quantity changes go through movements.
func UpdateItemHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(itemRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		before, err := store.GetItem(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Item not found")
		}

		item, err := store.UpdateItem(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Item not found")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: "updated inventory item " + item.Name,
			Before:      before,
			After:       item,
		})

		return c.JSON(viewItem(*item, time.Now()))
	}
}

// DELETE /api/inventory/:id
func DeleteItemHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		item, err := store.GetItem(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Item not found")
		}
		if err := store.DeleteItem(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item could not be deleted")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "inventory_item",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "deleted inventory item " + item.Name,
			Before:      item,
		})

		return c.JSON(fiber.Map{"message": "Item deleted"})
	}
}

// POST /api/inventory/:id/movements
// The movement and the quantity change land atomically; the resulting
// quantity is then checked for a stock alert.
func RecordMovementHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(movementRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		actorID, _ := auth.CurrentUserID(c)
		mv, err := store.RecordMovement(c.Context(), storage.MovementParams{
			ItemID:    id,
			Type:      models.MovementType(validate.Str(fields, "type")),
			Quantity:  validate.Int(fields, "quantity"),
			Reason:    validate.Str(fields, "reason"),
			Reference: validate.Str(fields, "reference"),
			ActorID:   actorID,
		})
		if err != nil {
			return web.StoreError(err, "Item not found")
		}

		item, err := store.GetItem(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Item not found")
		}
		if alert := alerts.EvaluateStock(item); alert != nil {
			if err := store.CreateAlert(c.Context(), alert); err != nil {
				log.Warn("stock alert write failed", zap.Uint("item_id", id), zap.Error(err))
			}
		}

		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "stock_movement",
			EntityID:    mv.ID,
			Action:      models.AuditActionCreate,
			Description: "recorded " + string(mv.Type) + " movement for " + item.Name,
			After:       mv,
		})

		return c.JSON(fiber.Map{
			"movement": mv,
			"item":     viewItem(*item, time.Now()),
		})
	}
}

// GET /api/inventory/:id/movements
func ListMovementsHandler(store storage.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetItem(c.Context(), id); err != nil {
			return web.StoreError(err, "Item not found")
		}
		movements, err := store.ListMovements(c.Context(), id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Movements could not be loaded")
		}
		return c.JSON(fiber.Map{"movements": movements, "count": len(movements)})
	}
}

// GET /api/inventory/summary
func SummaryHandler(store storage.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListItems(c.Context(), storage.ItemFilter{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Items could not be loaded")
		}

		now := time.Now()
		var low, out, expired int
		totalValue := decimal.Zero
		for _, item := range items {
			v := viewItem(item, now)
			switch v.StockStatus {
			case stockLow:
				low++
			case stockOut:
				out++
			}
			if v.IsExpired {
				expired++
			}
			totalValue = totalValue.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.CurrentStock))))
		}

		return c.JSON(fiber.Map{
			"total_items":        len(items),
			"low_stock_count":    low,
			"out_of_stock_count": out,
			"expired_count":      expired,
			"total_stock_value":  totalValue,
		})
	}
}
