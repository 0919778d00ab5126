package inventory

import (
	"context"
	"net/http"
	"testing"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSupplierAndItem(t *testing.T, store storage.Store) (uint, uint) {
	t.Helper()
	ctx := context.Background()
	sup := &models.Supplier{Name: "MedSupply"}
	require.NoError(t, store.CreateSupplier(ctx, sup))
	item := &models.InventoryItem{Name: "Gloves", SKU: "GL-1", Unit: "box", CurrentStock: 2, MinStockLevel: 1}
	require.NoError(t, store.CreateItem(ctx, item))
	return sup.ID, item.ID
}

func TestCreatePurchaseOrderValidatesLines(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	supplierID, itemID := seedSupplierAndItem(t, store)

	resp, out := doJSON(t, app, "POST", "/api/purchase-orders", map[string]any{
		"supplier_id": supplierID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "items")

	resp, out = doJSON(t, app, "POST", "/api/purchase-orders", map[string]any{
		"supplier_id": supplierID,
		"items":       []map[string]any{{"item_id": itemID, "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields = out["fields"].(map[string]any)
	assert.Contains(t, fields, "quantity")
}

func TestReceivingPurchaseOrderBooksMovements(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	supplierID, itemID := seedSupplierAndItem(t, store)

	resp, out := doJSON(t, app, "POST", "/api/purchase-orders", map[string]any{
		"supplier_id": supplierID,
		"items":       []map[string]any{{"item_id": itemID, "quantity": 10, "unit_cost": "3.25"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "draft", out["Status"])
	reference := out["Reference"].(string)
	require.NotEmpty(t, reference)

	resp, _ = doJSON(t, app, "PUT", "/api/purchase-orders/3/status", map[string]any{"status": "ordered"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = doJSON(t, app, "PUT", "/api/purchase-orders/3/status", map[string]any{"status": "received"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "received", out["Status"])

	ctx := context.Background()
	item, err := store.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 12, item.CurrentStock)

	movements, err := store.ListMovements(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementIn, movements[0].Type)
	assert.Equal(t, reference, movements[0].Reference)

	// Terminal state rejects further transitions.
	resp, _ = doJSON(t, app, "PUT", "/api/purchase-orders/3/status", map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReceivingFailsWhenOrderedItemIsGone(t *testing.T) {
	store := memstore.New()
	app := testApp(store)
	supplierID, itemID := seedSupplierAndItem(t, store)
	ctx := context.Background()

	resp, _ := doJSON(t, app, "POST", "/api/purchase-orders", map[string]any{
		"supplier_id": supplierID,
		"items":       []map[string]any{{"item_id": itemID, "quantity": 5}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/purchase-orders/3/status", map[string]any{"status": "ordered"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, store.DeleteItem(ctx, itemID))

	resp, out := doJSON(t, app, "PUT", "/api/purchase-orders/3/status", map[string]any{"status": "received"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, out["error"], "item")

	// The order was not transitioned and nothing was booked.
	po, err := store.GetPurchaseOrder(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderOrdered, po.Status)
}
