package memstore

import (
	"context"
	"testing"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEquipment(t *testing.T, s *Store) *models.Equipment {
	t.Helper()
	eq := &models.Equipment{
		Name:                "Laser Unit",
		SerialNumber:        "LU-2044",
		Status:              models.EquipmentMaintenanceRequired,
		ServiceIntervalDays: 90,
	}
	require.NoError(t, s.CreateEquipment(context.Background(), eq))
	return eq
}

func TestCompleteMaintenancePropagatesToEquipment(t *testing.T) {
	s := New()
	ctx := context.Background()
	eq := newEquipment(t, s)

	record := &models.MaintenanceRecord{
		EquipmentID: eq.ID,
		Type:        "routine",
		PerformedBy: "Engineer Ltd",
	}
	require.NoError(t, s.CreateMaintenance(ctx, record))
	assert.Equal(t, models.MaintenanceScheduled, record.Status)

	completedAt := time.Now()
	next := completedAt.AddDate(0, 0, 90)
	done, err := s.CompleteMaintenance(ctx, record.ID, storage.MaintenanceCompletion{
		CompletedAt:      completedAt,
		ActionsPerformed: "full service",
		Cost:             decimal.RequireFromString("150.00"),
		NextServiceDate:  &next,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	got, err := s.GetEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentOperational, got.Status)
	require.NotNil(t, got.LastServiceDate)
	require.NotNil(t, got.NextServiceDate)
	assert.WithinDuration(t, next, *got.NextServiceDate, time.Second)
}

func TestCompleteMaintenanceIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	eq := newEquipment(t, s)

	record := &models.MaintenanceRecord{EquipmentID: eq.ID, Type: "repair", PerformedBy: "Engineer Ltd"}
	require.NoError(t, s.CreateMaintenance(ctx, record))

	first := time.Now()
	_, err := s.CompleteMaintenance(ctx, record.ID, storage.MaintenanceCompletion{
		CompletedAt: first, ActionsPerformed: "replaced lens",
	})
	require.NoError(t, err)

	// The equipment is taken out of service again; a stale re-complete must
	// not flip it back to operational.
	_, err = s.UpdateEquipment(ctx, eq.ID, map[string]any{"status": "out_of_service"})
	require.NoError(t, err)

	again, err := s.CompleteMaintenance(ctx, record.ID, storage.MaintenanceCompletion{
		CompletedAt: time.Now(), ActionsPerformed: "duplicate submission",
	})
	require.NoError(t, err)
	assert.Equal(t, "replaced lens", again.ActionsPerformed)

	got, err := s.GetEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentOutOfService, got.Status)
}

func TestCreateMaintenanceUnknownEquipment(t *testing.T) {
	s := New()
	err := s.CreateMaintenance(context.Background(), &models.MaintenanceRecord{
		EquipmentID: 77, Type: "routine", PerformedBy: "x",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAlertFiltersAndFlags(t *testing.T) {
	s := New()
	ctx := context.Background()

	lowStock := &models.Alert{Type: models.AlertLowStock, Severity: models.SeverityHigh, ResourceType: "inventory_item", ResourceID: 1, Message: "low"}
	maint := &models.Alert{Type: models.AlertMaintenanceDue, Severity: models.SeverityMedium, ResourceType: "equipment", ResourceID: 2, Message: "due"}
	require.NoError(t, s.CreateAlert(ctx, lowStock))
	require.NoError(t, s.CreateAlert(ctx, maint))

	alerts, err := s.ListAlerts(ctx, storage.AlertFilter{ResourceType: "equipment"})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertMaintenanceDue, alerts[0].Type)

	_, err = s.SetAlertRead(ctx, lowStock.ID)
	require.NoError(t, err)
	alerts, err = s.ListAlerts(ctx, storage.AlertFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, maint.ID, alerts[0].ID)

	_, err = s.SetAlertDismissed(ctx, maint.ID)
	require.NoError(t, err)
	alerts, err = s.ListAlerts(ctx, storage.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1, "dismissed alerts are hidden by default")

	alerts, err = s.ListAlerts(ctx, storage.AlertFilter{IncludeDismissed: true})
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}
