package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicpro-backend/internal/config"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
}

func testApp(cfg *config.Config, store storage.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg, store))
	app.Post("/api/auth/login", LoginHandler(cfg, store))

	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/api/auth/me", MeHandler(store))
	protected.Get("/api/admin-only", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestRegisterAdminOnlyOnce(t *testing.T) {
	cfg := testConfig()
	store := memstore.New()
	app := testApp(cfg, store)

	resp, out := doJSON(t, app, "POST", "/api/auth/register-admin", "", map[string]any{
		"name": "Owner", "email": "Owner@Example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "owner@example.com", out["email"], "email is normalised")
	assert.Equal(t, "admin", out["role"])

	resp, _ = doJSON(t, app, "POST", "/api/auth/register-admin", "", map[string]any{
		"name": "Intruder", "email": "intruder@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginAndMe(t *testing.T) {
	cfg := testConfig()
	store := memstore.New()
	app := testApp(cfg, store)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), &models.User{
		Name: "Dr Ray", Email: "ray@example.com", PasswordHash: string(hash), Role: models.RolePractitioner,
	}))

	resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "ray@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, out := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "ray@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	resp, out = doJSON(t, app, "GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ray@example.com", out["email"])
	assert.Equal(t, "practitioner", out["role"])
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	cfg := testConfig()
	store := memstore.New()
	app := testApp(cfg, store)

	resp, out := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Wrong email or password", out["error"])
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	store := memstore.New()
	app := testApp(cfg, store)

	resp, _ := doJSON(t, app, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	cfg := testConfig()
	store := memstore.New()
	app := testApp(cfg, store)

	admin := &models.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	trainer := &models.User{Name: "Coach", Email: "coach@example.com", PasswordHash: "x", Role: models.RoleTrainer}
	require.NoError(t, store.CreateUser(context.Background(), admin))
	require.NoError(t, store.CreateUser(context.Background(), trainer))

	adminToken, err := GenerateToken(cfg.JWTSecret, admin)
	require.NoError(t, err)
	trainerToken, err := GenerateToken(cfg.JWTSecret, trainer)
	require.NoError(t, err)

	resp, _ := doJSON(t, app, "GET", "/api/admin-only", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/admin-only", trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
