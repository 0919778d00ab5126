package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	app.Post("/api/bookings", CreateBookingHandler(store))
	app.Get("/api/bookings", ListBookingsHandler(store))
	app.Put("/api/bookings/:id", UpdateBookingHandler(store))
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

func seed(t *testing.T, store storage.Store) (clientID, treatmentID, practitionerID uint) {
	t.Helper()
	ctx := context.Background()

	client := &models.Client{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, store.CreateClient(ctx, client))

	treatment := &models.Treatment{
		Name: "Dermal Filler", DurationMinutes: 60,
		Price: decimal.RequireFromString("180.00"), Active: true,
	}
	require.NoError(t, store.CreateTreatment(ctx, treatment))

	user := &models.User{Name: "Dr Ray", Email: "ray@example.com", PasswordHash: "x", Role: models.RolePractitioner}
	require.NoError(t, store.CreateUser(ctx, user))

	return client.ID, treatment.ID, user.ID
}

func TestCreateBookingComputesEndFromTreatment(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	clientID, treatmentID, practitionerID := seed(t, store)

	start := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	resp, out := doJSON(t, app, "POST", "/api/bookings", map[string]any{
		"client_id":       clientID,
		"treatment_id":    treatmentID,
		"practitioner_id": practitionerID,
		"starts_at":       start.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "scheduled", out["Status"])
	assert.NotEmpty(t, out["Reference"])

	ends, err := time.Parse(time.RFC3339, out["EndsAt"].(string))
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), ends.UTC())
}

func TestCreateBookingConflictRejected(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	clientID, treatmentID, practitionerID := seed(t, store)

	start := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	body := map[string]any{
		"client_id":       clientID,
		"treatment_id":    treatmentID,
		"practitioner_id": practitionerID,
		"starts_at":       start.Format(time.RFC3339),
	}
	resp, _ := doJSON(t, app, "POST", "/api/bookings", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Overlapping slot, same practitioner.
	body["starts_at"] = start.Add(30 * time.Minute).Format(time.RFC3339)
	resp, out := doJSON(t, app, "POST", "/api/bookings", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, out["error"], "booking")

	bookings, err := store.ListBookings(context.Background(), storage.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestCreateBookingUnknownReferences(t *testing.T) {
	store := memstore.New()
	app := testApp(store)

	resp, _ := doJSON(t, app, "POST", "/api/bookings", map[string]any{
		"client_id":       1,
		"treatment_id":    1,
		"practitioner_id": 1,
		"starts_at":       time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRescheduleChecksAvailability(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	clientID, treatmentID, practitionerID := seed(t, store)

	ctx := context.Background()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	first := &models.Booking{
		Reference: "b-1", ClientID: clientID, TreatmentID: treatmentID, PractitionerID: practitionerID,
		StartsAt: base, EndsAt: base.Add(time.Hour), Status: models.BookingScheduled,
	}
	second := &models.Booking{
		Reference: "b-2", ClientID: clientID, TreatmentID: treatmentID, PractitionerID: practitionerID,
		StartsAt: base.Add(2 * time.Hour), EndsAt: base.Add(3 * time.Hour), Status: models.BookingScheduled,
	}
	require.NoError(t, store.CreateBooking(ctx, first))
	require.NoError(t, store.CreateBooking(ctx, second))

	// Moving the second booking onto the first one's slot fails.
	path := fmt.Sprintf("/api/bookings/%d", second.ID)
	resp, _ := doJSON(t, app, "PUT", path, map[string]any{
		"starts_at": base.Add(30 * time.Minute).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Re-saving the same slot succeeds because the booking excludes itself.
	resp, out := doJSON(t, app, "PUT", path, map[string]any{
		"starts_at": base.Add(2 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ends, err := time.Parse(time.RFC3339, out["EndsAt"].(string))
	require.NoError(t, err)
	assert.Equal(t, base.Add(3*time.Hour), ends.UTC())
}

func TestBookingStatusTransition(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	clientID, treatmentID, practitionerID := seed(t, store)

	ctx := context.Background()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{
		Reference: "b-1", ClientID: clientID, TreatmentID: treatmentID, PractitionerID: practitionerID,
		StartsAt: base, EndsAt: base.Add(time.Hour), Status: models.BookingScheduled,
	}
	require.NoError(t, store.CreateBooking(ctx, b))

	path := fmt.Sprintf("/api/bookings/%d", b.ID)
	resp, out := doJSON(t, app, "PUT", path, map[string]any{"status": "no_show"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no_show", out["Status"])

	resp, _ = doJSON(t, app, "PUT", path, map[string]any{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
