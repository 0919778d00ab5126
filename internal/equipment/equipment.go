// Package equipment manages clinic devices and their service history.
package equipment

import (
	"time"

	"clinicpro-backend/internal/audit"
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/validate"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var equipmentRules = validate.RuleSet{
	{Field: "name", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "serial_number", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "category", Kind: validate.KindString, MaxLen: 50},
	{Field: "location", Kind: validate.KindString, MaxLen: 50},
	{Field: "purchased_at", Kind: validate.KindDate},
	{Field: "next_service_date", Kind: validate.KindDate},
	{Field: "service_interval_days", Kind: validate.KindInt, Min: validate.MinOf(0), Default: 0},
	{Field: "status", Kind: validate.KindEnum, Values: []string{"operational", "maintenance_required", "out_of_service"}, Default: "operational"},
	{Field: "notes", Kind: validate.KindString, MaxLen: 500},
}

const (
	maintenanceOK      = "ok"
	maintenanceDueSoon = "due_soon"
	maintenanceOverdue = "overdue"
)

// equipmentView adds the service-due fields derived from the wall clock.
type equipmentView struct {
	models.Equipment
	MaintenanceStatus string `json:"maintenance_status"`
	DaysToMaintenance *int   `json:"days_to_maintenance"`
}

func viewEquipment(eq models.Equipment, now time.Time) equipmentView {
	v := equipmentView{Equipment: eq, MaintenanceStatus: maintenanceOK}
	if eq.NextServiceDate != nil {
		days := int(eq.NextServiceDate.Sub(now).Hours() / 24)
		v.DaysToMaintenance = &days
		switch {
		case days < 0:
			v.MaintenanceStatus = maintenanceOverdue
		case days <= 14:
			v.MaintenanceStatus = maintenanceDueSoon
		}
	}
	return v
}

// POST /api/equipment
func CreateEquipmentHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(equipmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		eq := models.Equipment{
			Name:                validate.Str(fields, "name"),
			SerialNumber:        validate.Str(fields, "serial_number"),
			Category:            validate.Str(fields, "category"),
			Location:            validate.Str(fields, "location"),
			PurchasedAt:         validate.TimePtr(fields, "purchased_at"),
			NextServiceDate:     validate.TimePtr(fields, "next_service_date"),
			ServiceIntervalDays: validate.Int(fields, "service_interval_days"),
			Status:              models.EquipmentStatus(validate.Str(fields, "status")),
			Notes:               validate.Str(fields, "notes"),
		}
		if err := store.CreateEquipment(c.Context(), &eq); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Equipment could not be created")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "equipment",
			EntityID:    eq.ID,
			Action:      models.AuditActionCreate,
			Description: "created equipment " + eq.Name,
			After:       eq,
		})

		return c.JSON(viewEquipment(eq, time.Now()))
	}
}

// GET /api/equipment/:id
func GetEquipmentHandler(store storage.EquipmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		eq, err := store.GetEquipment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Equipment not found")
		}
		return c.JSON(viewEquipment(*eq, time.Now()))
	}
}

// GET /api/equipment?category=&location=&status=&maintenanceDue=true
func ListEquipmentHandler(store storage.EquipmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.EquipmentFilter{
			Category: c.Query("category"),
			Location: c.Query("location"),
			Status:   models.EquipmentStatus(c.Query("status")),
		}
		items, err := store.ListEquipment(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Equipment could not be loaded")
		}

		now := time.Now()
		dueOnly := c.Query("maintenanceDue") == "true"
		views := make([]equipmentView, 0, len(items))
		for _, eq := range items {
			v := viewEquipment(eq, now)
			if dueOnly && v.MaintenanceStatus == maintenanceOK {
				continue
			}
			views = append(views, v)
		}
		return c.JSON(fiber.Map{"equipment": views, "count": len(views)})
	}
}

// PUT /api/equipment/:id
func UpdateEquipmentHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.ApplyPartial(equipmentRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		before, err := store.GetEquipment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Equipment not found")
		}
		eq, err := store.UpdateEquipment(c.Context(), id, fields)
		if err != nil {
			return web.StoreError(err, "Equipment not found")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "equipment",
			EntityID:    eq.ID,
			Action:      models.AuditActionUpdate,
			Description: "updated equipment " + eq.Name,
			Before:      before,
			After:       eq,
		})

		return c.JSON(viewEquipment(*eq, time.Now()))
	}
}

// DELETE /api/equipment/:id
func DeleteEquipmentHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		eq, err := store.GetEquipment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Equipment not found")
		}
		if err := store.DeleteEquipment(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Equipment could not be deleted")
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "equipment",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "deleted equipment " + eq.Name,
			Before:      eq,
		})

		return c.JSON(fiber.Map{"message": "Equipment deleted"})
	}
}

// GET /api/equipment/summary
func SummaryHandler(store storage.EquipmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListEquipment(c.Context(), storage.EquipmentFilter{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Equipment could not be loaded")
		}

		now := time.Now()
		var dueSoon, overdue, outOfService int
		for _, eq := range items {
			v := viewEquipment(eq, now)
			switch v.MaintenanceStatus {
			case maintenanceDueSoon:
				dueSoon++
			case maintenanceOverdue:
				overdue++
			}
			if eq.Status == models.EquipmentOutOfService {
				outOfService++
			}
		}

		return c.JSON(fiber.Map{
			"total_equipment":      len(items),
			"due_soon_count":       dueSoon,
			"overdue_count":        overdue,
			"out_of_service_count": outOfService,
		})
	}
}
