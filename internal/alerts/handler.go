package alerts

import (
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

// GET /api/alerts?type=&resourceType=&unread=true&includeDismissed=true
func ListAlertsHandler(store storage.AlertStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := storage.AlertFilter{
			Type:             models.AlertType(c.Query("type")),
			ResourceType:     c.Query("resourceType"),
			UnreadOnly:       c.Query("unread") == "true",
			IncludeDismissed: c.Query("includeDismissed") == "true",
		}
		alerts, err := store.ListAlerts(c.Context(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alerts could not be loaded")
		}
		return c.JSON(fiber.Map{"alerts": alerts, "count": len(alerts)})
	}
}

// PUT /api/alerts/:id/read
func MarkAlertReadHandler(store storage.AlertStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		alert, err := store.SetAlertRead(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Alert not found")
		}
		return c.JSON(alert)
	}
}

// PUT /api/alerts/:id/dismiss
func DismissAlertHandler(store storage.AlertStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ID(c)
		if err != nil {
			return err
		}
		alert, err := store.SetAlertDismissed(c.Context(), id)
		if err != nil {
			return web.StoreError(err, "Alert not found")
		}
		return c.JSON(alert)
	}
}
