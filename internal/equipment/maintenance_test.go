package equipment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(store storage.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserEmailKey, "tester@example.com")
		return c.Next()
	})

	log := zap.NewNop()
	app.Post("/api/equipment", CreateEquipmentHandler(store, log))
	app.Get("/api/equipment", ListEquipmentHandler(store))
	app.Get("/api/equipment/summary", SummaryHandler(store))
	app.Get("/api/equipment/:id", GetEquipmentHandler(store))
	app.Post("/api/equipment/:id/maintenance", ScheduleMaintenanceHandler(store, log))
	app.Get("/api/equipment/:id/maintenance", ListMaintenanceHandler(store))
	app.Put("/api/maintenance/:id/complete", CompleteMaintenanceHandler(store, log))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func seedEquipment(t *testing.T, store storage.Store, status models.EquipmentStatus) *models.Equipment {
	t.Helper()
	eq := &models.Equipment{
		Name: "IPL Machine", SerialNumber: "IPL-9", Status: status, ServiceIntervalDays: 90,
	}
	require.NoError(t, store.CreateEquipment(context.Background(), eq))
	return eq
}

func TestScheduleMaintenanceCreatesRecordAndAlert(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	eq := seedEquipment(t, store, models.EquipmentMaintenanceRequired)

	resp, out := doJSON(t, app, "POST", "/api/equipment/1/maintenance", map[string]any{
		"type":         "routine",
		"performed_by": "Engineer Ltd",
		"description":  "annual service",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "scheduled", out["Status"])

	alerts, err := store.ListAlerts(context.Background(), storage.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertMaintenanceDue, alerts[0].Type)
	assert.Equal(t, eq.ID, alerts[0].ResourceID)
}

func TestScheduleMaintenanceValidation(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	seedEquipment(t, store, models.EquipmentOperational)

	resp, out := doJSON(t, app, "POST", "/api/equipment/1/maintenance", map[string]any{
		"type": "guesswork",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "performed_by")
}

func TestCompleteMaintenanceRestoresEquipment(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	eq := seedEquipment(t, store, models.EquipmentMaintenanceRequired)

	record := &models.MaintenanceRecord{EquipmentID: eq.ID, Type: "routine", PerformedBy: "Engineer Ltd"}
	require.NoError(t, store.CreateMaintenance(context.Background(), record))

	next := time.Now().AddDate(0, 0, 90).Format("2006-01-02")
	resp, out := doJSON(t, app, "PUT", "/api/maintenance/2/complete", map[string]any{
		"actions_performed": "full service",
		"cost":              "120.00",
		"next_service_date": next,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", out["Status"])

	got, err := store.GetEquipment(context.Background(), eq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentOperational, got.Status)
	require.NotNil(t, got.NextServiceDate)

	// Service 90 days out raises no due alert.
	alerts, err := store.ListAlerts(context.Background(), storage.AlertFilter{})
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMaintenanceDueFilter(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 5)
	far := time.Now().AddDate(0, 0, 120)
	require.NoError(t, store.CreateEquipment(ctx, &models.Equipment{Name: "Soon", SerialNumber: "S-1", NextServiceDate: &soon}))
	require.NoError(t, store.CreateEquipment(ctx, &models.Equipment{Name: "Later", SerialNumber: "L-1", NextServiceDate: &far}))

	resp, out := doJSON(t, app, "GET", "/api/equipment?maintenanceDue=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), out["count"])

	only := out["equipment"].([]any)[0].(map[string]any)
	assert.Equal(t, "Soon", only["Name"])
	assert.Equal(t, "due_soon", only["maintenance_status"])
}
