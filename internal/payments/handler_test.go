package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProcessor struct {
	intentID string
	err      error
	calls    int
	amount   decimal.Decimal
	currency string
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amount decimal.Decimal, currency string) (string, error) {
	f.calls++
	f.amount = amount
	f.currency = currency
	return f.intentID, f.err
}

func testApp(store storage.Store, processor Processor) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(4))
		return c.Next()
	})
	app.Post("/api/payments", CreatePaymentHandler(store, processor, zap.NewNop()))
	app.Get("/api/payments", ListPaymentsHandler(store))
	app.Post("/api/payments/:id/verify-age", VerifyAgeHandler(store))
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

func seedClient(t *testing.T, store storage.Store) uint {
	t.Helper()
	client := &models.Client{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, store.CreateClient(context.Background(), client))
	return client.ID
}

func TestCreatePaymentMirrorsProcessorIntent(t *testing.T) {
	store := memstore.New()
	fake := &fakeProcessor{intentID: "pi_123"}
	app := testApp(store, fake)
	clientID := seedClient(t, store)

	resp, out := doJSON(t, app, "POST", "/api/payments", map[string]any{
		"client_id": clientID,
		"amount":    "180.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pi_123", out["IntentID"])
	assert.Equal(t, "pending", out["Status"])
	assert.Equal(t, "GBP", out["Currency"], "currency defaults to GBP")

	assert.Equal(t, 1, fake.calls)
	assert.True(t, decimal.RequireFromString("180.00").Equal(fake.amount))
	assert.Equal(t, "GBP", fake.currency)
}

func TestCreatePaymentProcessorDownNothingStored(t *testing.T) {
	store := memstore.New()
	fake := &fakeProcessor{err: errors.New("timeout")}
	app := testApp(store, fake)
	clientID := seedClient(t, store)

	resp, _ := doJSON(t, app, "POST", "/api/payments", map[string]any{
		"client_id": clientID,
		"amount":    50.0,
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	payments, err := store.ListPayments(context.Background(), storage.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, payments, "no payment row without a processor intent")
}

func TestCreatePaymentValidation(t *testing.T) {
	store := memstore.New()
	fake := &fakeProcessor{intentID: "pi_x"}
	app := testApp(store, fake)

	resp, out := doJSON(t, app, "POST", "/api/payments", map[string]any{
		"amount":   "0.00",
		"currency": "XYZ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "client_id")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "currency")
	assert.Zero(t, fake.calls, "processor must not be called for invalid input")
}

func TestVerifyAgeRecordsActor(t *testing.T) {
	store := memstore.New()
	fake := &fakeProcessor{intentID: "pi_1"}
	app := testApp(store, fake)
	clientID := seedClient(t, store)

	p := &models.Payment{ClientID: clientID, IntentID: "pi_1", Currency: "GBP", Amount: decimal.RequireFromString("10.00")}
	require.NoError(t, store.CreatePayment(context.Background(), p))

	resp, out := doJSON(t, app, "POST", "/api/payments/2/verify-age", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["AgeVerified"])
	assert.Equal(t, float64(4), out["AgeVerifiedBy"], "the authenticated user is recorded")
}

func TestLocalProcessorIssuesUniqueIntents(t *testing.T) {
	p := NewLocalProcessor()
	a, err := p.CreateIntent(context.Background(), decimal.New(1, 0), "GBP")
	require.NoError(t, err)
	b, err := p.CreateIntent(context.Background(), decimal.New(1, 0), "GBP")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "local_")
}
