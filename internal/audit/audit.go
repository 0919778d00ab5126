// Package audit records who changed what, with JSON snapshots of the record
// before and after the change.
package audit

import (
	"context"
	"encoding/json"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Entry struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write persists one audit row. Failures are logged, never propagated; an
// audit miss must not fail the operation it describes.
func Write(ctx context.Context, store storage.AuditStore, log *zap.Logger, e Entry) {
	row := &models.AuditLog{
		UserID:      e.UserID,
		UserName:    e.UserName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  marshal(e.Before),
		AfterData:   marshal(e.After),
	}
	if err := store.CreateAuditLog(ctx, row); err != nil {
		log.Warn("audit log write failed",
			zap.String("entity_type", e.EntityType),
			zap.Uint("entity_id", e.EntityID),
			zap.Error(err))
	}
}

func marshal(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// GET /api/audit-logs?entityType=&limit=
func ListAuditLogsHandler(store storage.AuditStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.AuditFilter{
			EntityType: c.Query("entityType"),
			Limit:      c.QueryInt("limit"),
		}
		logs, err := store.ListAuditLogs(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be loaded")
		}
		return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
	}
}
