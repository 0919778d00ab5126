package consent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
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
	app.Post("/api/consent-templates", CreateTemplateHandler(store))
	app.Post("/api/consent-forms", CreateFormHandler(store))
	app.Put("/api/consent-forms/:id", UpdateFormHandler(store))
	app.Post("/api/consent-forms/:id/sign", SignFormHandler(store))
	app.Put("/api/consent-forms/:id/status", SetFormStatusHandler(store))
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

func seedTemplateAndClient(t *testing.T, store storage.Store) (uint, uint) {
	t.Helper()
	ctx := context.Background()
	tmpl := &models.ConsentTemplate{Name: "Filler Consent", Content: "terms", Active: true}
	require.NoError(t, store.CreateConsentTemplate(ctx, tmpl))
	client := &models.Client{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, store.CreateClient(ctx, client))
	return tmpl.ID, client.ID
}

func TestConsentFormLifecycle(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	tmplID, clientID := seedTemplateAndClient(t, store)

	resp, out := doJSON(t, app, "POST", "/api/consent-forms", map[string]any{
		"template_id": tmplID,
		"client_id":   clientID,
		"responses":   map[string]any{"allergies": "none"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "active", out["Status"])
	assert.Nil(t, out["SignedAt"])

	// Revise responses while unsigned.
	resp, _ = doJSON(t, app, "PUT", "/api/consent-forms/3", map[string]any{
		"responses": map[string]any{"allergies": "latex"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Sign.
	resp, out = doJSON(t, app, "POST", "/api/consent-forms/3/sign", map[string]any{
		"signed_by": "Ada Lovelace",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, out["SignedAt"])

	// Content edits now conflict.
	resp, out = doJSON(t, app, "PUT", "/api/consent-forms/3", map[string]any{
		"responses": map[string]any{"allergies": "revised"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, out["error"], "signed")

	// Signing twice conflicts too.
	resp, _ = doJSON(t, app, "POST", "/api/consent-forms/3/sign", map[string]any{
		"signed_by": "Ada Lovelace",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Withdrawal is always possible.
	resp, out = doJSON(t, app, "PUT", "/api/consent-forms/3/status", map[string]any{
		"status": "withdrawn",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "withdrawn", out["Status"])
}

func TestCreateFormUnknownTemplate(t *testing.T) {
	store := memstore.New()
	app := testApp(store)

	resp, _ := doJSON(t, app, "POST", "/api/consent-forms", map[string]any{
		"template_id": 9, "client_id": 9,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTemplateValidation(t *testing.T) {
	store := memstore.New()
	app := testApp(store)

	resp, out := doJSON(t, app, "POST", "/api/consent-templates", map[string]any{
		"version": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "version")
}
