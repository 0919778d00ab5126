package equipment

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
	"go.uber.org/zap"
)

var scheduleMaintenanceRules = validate.RuleSet{
	{Field: "type", Kind: validate.KindEnum, Required: true, Values: []string{"routine", "repair", "calibration"}},
	{Field: "description", Kind: validate.KindString, MaxLen: 500},
	{Field: "performed_by", Kind: validate.KindString, Required: true, MaxLen: 100},
	{Field: "scheduled_for", Kind: validate.KindDate},
	{Field: "cost", Kind: validate.KindDecimal, Min: validate.MinOf(0)},
	{Field: "next_service_date", Kind: validate.KindDate},
}

var completeMaintenanceRules = validate.RuleSet{
	{Field: "completed_at", Kind: validate.KindDate},
	{Field: "issues_found", Kind: validate.KindString, MaxLen: 500},
	{Field: "actions_performed", Kind: validate.KindString, MaxLen: 500},
	{Field: "cost", Kind: validate.KindDecimal, Min: validate.MinOf(0)},
	{Field: "next_service_date", Kind: validate.KindDate},
}

// POST /api/equipment/:id/maintenance
// Scheduling also raises a maintenance_due alert so the work is visible on
// the dashboard.
func ScheduleMaintenanceHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(scheduleMaintenanceRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		eq, err := store.GetEquipment(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Equipment not found")
		}

		record := models.MaintenanceRecord{
			EquipmentID:     eq.ID,
			Type:            validate.Str(fields, "type"),
			Description:     validate.Str(fields, "description"),
			PerformedBy:     validate.Str(fields, "performed_by"),
			Status:          models.MaintenanceScheduled,
			ScheduledFor:    validate.TimePtr(fields, "scheduled_for"),
			Cost:            validate.Dec(fields, "cost"),
			NextServiceDate: validate.TimePtr(fields, "next_service_date"),
		}
		if err := store.CreateMaintenance(c.Context(), &record); err != nil {
			return web.StoreError(err, "Equipment not found")
		}

		alert := &models.Alert{
			Type:         models.AlertMaintenanceDue,
			Severity:     models.SeverityMedium,
			ResourceType: "equipment",
			ResourceID:   eq.ID,
			Message:      eq.Name + " has " + record.Type + " maintenance scheduled",
		}
		if err := store.CreateAlert(c.Context(), alert); err != nil {
			log.Warn("maintenance alert write failed", zap.Uint("equipment_id", eq.ID), zap.Error(err))
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "maintenance_record",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: "scheduled " + record.Type + " maintenance for " + eq.Name,
			After:       record,
		})

		return c.JSON(record)
	}
}

// GET /api/equipment/:id/maintenance
func ListMaintenanceHandler(store storage.EquipmentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetEquipment(c.Context(), id); err != nil {
			return web.StoreError(err, "Equipment not found")
		}
		records, err := store.ListMaintenance(c.Context(), id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Maintenance records could not be loaded")
		}
		return c.JSON(fiber.Map{"records": records, "count": len(records)})
	}
}

// PUT /api/maintenance/:id/complete
// Completion marks the record done and moves the equipment back to
// operational with fresh service dates. Completing twice is a no-op.
func CompleteMaintenanceHandler(store storage.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		raw, err := web.Body(c)
		if err != nil {
			return err
		}
		fields, errs := validate.Apply(completeMaintenanceRules, raw)
		if errs != nil {
			return web.Invalid(c, errs)
		}

		completedAt := time.Now()
		if t, ok := validate.Time(fields, "completed_at"); ok {
			completedAt = t
		}
		record, err := store.CompleteMaintenance(c.Context(), id, storage.MaintenanceCompletion{
			CompletedAt:      completedAt,
			IssuesFound:      validate.Str(fields, "issues_found"),
			ActionsPerformed: validate.Str(fields, "actions_performed"),
			Cost:             validate.Dec(fields, "cost"),
			NextServiceDate:  validate.TimePtr(fields, "next_service_date"),
		})
		if err != nil {
			return web.StoreError(err, "Maintenance record not found")
		}

		if eq, err := store.GetEquipment(c.Context(), record.EquipmentID); err == nil {
			if alert := alerts.EvaluateMaintenance(eq, time.Now()); alert != nil {
				if err := store.CreateAlert(c.Context(), alert); err != nil {
					log.Warn("maintenance alert write failed", zap.Uint("equipment_id", eq.ID), zap.Error(err))
				}
			}
		}

		actorID, _ := auth.CurrentUserID(c)
		audit.Write(c.Context(), store, log, audit.Entry{
			UserID:      actorID,
			UserName:    auth.CurrentUserEmail(c),
			EntityType:  "maintenance_record",
			EntityID:    record.ID,
			Action:      models.AuditActionUpdate,
			Description: "completed " + record.Type + " maintenance",
			After:       record,
		})

		return c.JSON(record)
	}
}
