// Package alerts derives operational warnings from inventory and equipment
// state. Evaluation is pure; persistence is append-only, so a condition that
// re-triggers simply creates another row.
package alerts

import (
	"fmt"
	"time"

	"clinicpro-backend/internal/models"
)

// ExpiryWindowDays is how far ahead expiry alerts look.
const ExpiryWindowDays = 30

// EvaluateStock returns the alert an item's quantity warrants, or nil.
func EvaluateStock(item *models.InventoryItem) *models.Alert {
	switch {
	case item.CurrentStock == 0:
		return &models.Alert{
			Type:         models.AlertOutOfStock,
			Severity:     models.SeverityCritical,
			ResourceType: "inventory_item",
			ResourceID:   item.ID,
			Message:      fmt.Sprintf("%s is out of stock", item.Name),
		}
	case item.CurrentStock <= item.MinStockLevel:
		return &models.Alert{
			Type:         models.AlertLowStock,
			Severity:     models.SeverityHigh,
			ResourceType: "inventory_item",
			ResourceID:   item.ID,
			Message:      fmt.Sprintf("%s is below its minimum stock level (%d left, minimum %d)", item.Name, item.CurrentStock, item.MinStockLevel),
		}
	}
	return nil
}

// EvaluateExpiry returns an expiring alert when the item's expiry date falls
// within the lookahead window, or nil.
func EvaluateExpiry(item *models.InventoryItem, now time.Time) *models.Alert {
	if item.ExpiryDate == nil {
		return nil
	}
	days := int(item.ExpiryDate.Sub(now).Hours() / 24)
	if days > ExpiryWindowDays {
		return nil
	}

	severity := models.SeverityMedium
	msg := fmt.Sprintf("%s expires in %d days", item.Name, days)
	if days < 0 {
		severity = models.SeverityCritical
		msg = fmt.Sprintf("%s expired %d days ago", item.Name, -days)
	} else if days <= 7 {
		severity = models.SeverityHigh
	}
	return &models.Alert{
		Type:         models.AlertExpiring,
		Severity:     severity,
		ResourceType: "inventory_item",
		ResourceID:   item.ID,
		Message:      msg,
	}
}

// EvaluateMaintenance returns a maintenance alert based on the equipment's
// next service date, or nil when no service is due.
func EvaluateMaintenance(eq *models.Equipment, now time.Time) *models.Alert {
	if eq.NextServiceDate == nil {
		return nil
	}
	days := int(eq.NextServiceDate.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return &models.Alert{
			Type:         models.AlertMaintenanceOverdue,
			Severity:     models.SeverityCritical,
			ResourceType: "equipment",
			ResourceID:   eq.ID,
			Message:      fmt.Sprintf("%s is %d days overdue for service", eq.Name, -days),
		}
	case days <= 14:
		return &models.Alert{
			Type:         models.AlertMaintenanceDue,
			Severity:     models.SeverityMedium,
			ResourceType: "equipment",
			ResourceID:   eq.ID,
			Message:      fmt.Sprintf("%s is due for service in %d days", eq.Name, days),
		}
	}
	return nil
}
