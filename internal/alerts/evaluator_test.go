package alerts

import (
	"testing"
	"time"

	"clinicpro-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateStock(t *testing.T) {
	cases := []struct {
		name     string
		stock    int
		min      int
		wantType models.AlertType
		wantSev  models.AlertSeverity
		wantNil  bool
	}{
		{"out of stock", 0, 5, models.AlertOutOfStock, models.SeverityCritical, false},
		{"at minimum", 5, 5, models.AlertLowStock, models.SeverityHigh, false},
		{"below minimum", 4, 5, models.AlertLowStock, models.SeverityHigh, false},
		{"healthy", 6, 5, "", "", true},
		{"zero minimum healthy", 3, 0, "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &models.InventoryItem{ID: 7, Name: "Botulinum Vial", CurrentStock: tc.stock, MinStockLevel: tc.min}
			got := EvaluateStock(item)
			if tc.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantType, got.Type)
			assert.Equal(t, tc.wantSev, got.Severity)
			assert.Equal(t, "inventory_item", got.ResourceType)
			assert.Equal(t, uint(7), got.ResourceID)
		})
	}
}

func TestEvaluateExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	t.Run("no expiry date", func(t *testing.T) {
		assert.Nil(t, EvaluateExpiry(&models.InventoryItem{}, now))
	})
	t.Run("far in the future", func(t *testing.T) {
		assert.Nil(t, EvaluateExpiry(&models.InventoryItem{ExpiryDate: expiry(90)}, now))
	})
	t.Run("inside the window", func(t *testing.T) {
		got := EvaluateExpiry(&models.InventoryItem{ID: 3, Name: "Gel", ExpiryDate: expiry(20)}, now)
		require.NotNil(t, got)
		assert.Equal(t, models.AlertExpiring, got.Type)
		assert.Equal(t, models.SeverityMedium, got.Severity)
	})
	t.Run("expiring this week", func(t *testing.T) {
		got := EvaluateExpiry(&models.InventoryItem{ID: 3, Name: "Gel", ExpiryDate: expiry(5)}, now)
		require.NotNil(t, got)
		assert.Equal(t, models.SeverityHigh, got.Severity)
	})
	t.Run("already expired", func(t *testing.T) {
		got := EvaluateExpiry(&models.InventoryItem{ID: 3, Name: "Gel", ExpiryDate: expiry(-10)}, now)
		require.NotNil(t, got)
		assert.Equal(t, models.SeverityCritical, got.Severity)
	})
}

func TestEvaluateMaintenance(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	t.Run("no service date", func(t *testing.T) {
		assert.Nil(t, EvaluateMaintenance(&models.Equipment{}, now))
	})
	t.Run("not due yet", func(t *testing.T) {
		assert.Nil(t, EvaluateMaintenance(&models.Equipment{NextServiceDate: service(60)}, now))
	})
	t.Run("due soon", func(t *testing.T) {
		got := EvaluateMaintenance(&models.Equipment{ID: 4, Name: "Laser", NextServiceDate: service(10)}, now)
		require.NotNil(t, got)
		assert.Equal(t, models.AlertMaintenanceDue, got.Type)
		assert.Equal(t, models.SeverityMedium, got.Severity)
		assert.Equal(t, "equipment", got.ResourceType)
	})
	t.Run("overdue", func(t *testing.T) {
		got := EvaluateMaintenance(&models.Equipment{ID: 4, Name: "Laser", NextServiceDate: service(-3)}, now)
		require.NotNil(t, got)
		assert.Equal(t, models.AlertMaintenanceOverdue, got.Type)
		assert.Equal(t, models.SeverityCritical, got.Severity)
	})
}
