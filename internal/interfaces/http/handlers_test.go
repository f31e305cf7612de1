package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/audit"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// newAPI arma la API completa sobre el almacén en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Stores()
	rec := audit.NewRecorder(store.Audit(), logger.Nop().Zerolog())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(repos.Products, store, rec),
		LocationUC:    usecase.NewLocationUseCase(repos.Locations, rec),
		PurchaseUC:    purchasing.NewPurchaseUseCase(store, repos.Purchases, rec, nil),
		SaleUC:        sales.NewSaleUseCase(store, repos.Sales, rec, nil),
		TransferUC:    inventory.NewTransferUseCase(store, repos.Transfers, rec, nil),
		AdjustUC:      inventory.NewAdjustStockUseCase(store, nil),
		QueryUC:       inventory.NewQueryUseCase(repos.Stock, repos.Movements),
		Reconciler:    inventory.NewReconciler(store),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Stock, repos.Products),
		JWTSecret:     testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp.StatusCode, out
}

func mustCreate(t *testing.T, app *fiber.App, auth, path string, body any) string {
	t.Helper()
	status, out := call(t, app, http.MethodPost, path, auth, body)
	require.Equal(t, http.StatusCreated, status, "POST %s: %v", path, out)
	id, _ := out["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func stockOf(t *testing.T, app *fiber.App, auth, productID, locationID string) float64 {
	t.Helper()
	status, out := call(t, app, http.MethodGet, "/api/inventory/stock/"+productID+"/"+locationID, auth, nil)
	require.Equal(t, http.StatusOK, status, "%v", out)
	return out["quantity_on_hand"].(float64)
}

func TestAPI_Health(t *testing.T) {
	app := newAPI(t)
	status, out := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	app := newAPI(t)
	status, out := call(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", out["code"])
}

func TestAPI_CompraTrasladoYVenta(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")

	centro := mustCreate(t, app, admin, "/api/locations", map[string]any{"name": "Sede Centro"})
	norte := mustCreate(t, app, admin, "/api/locations", map[string]any{"name": "Sede Norte"})
	product := mustCreate(t, app, admin, "/api/products", map[string]any{
		"sku": "cafe-500", "name": "Café 500g", "purchase_price": "12000", "sale_price": "18000",
	})

	mustCreate(t, app, admin, "/api/purchases", map[string]any{
		"supplier_id": "prov-1",
		"location_id": centro,
		"lines":       []map[string]any{{"product_id": product, "quantity": 7, "unit_price": "11000"}},
	})
	assert.Equal(t, float64(7), stockOf(t, app, admin, product, centro))

	transfer := mustCreate(t, app, admin, "/api/transfers", map[string]any{
		"product_id": product, "quantity": 5, "source_location_id": centro, "destination_location_id": norte,
	})
	status, out := call(t, app, http.MethodPost, "/api/transfers/"+transfer+"/receive", admin, nil)
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.Equal(t, "received", out["status"])
	assert.Equal(t, float64(2), stockOf(t, app, admin, product, centro))
	assert.Equal(t, float64(5), stockOf(t, app, admin, product, norte))

	status, out = call(t, app, http.MethodPost, "/api/transfers/"+transfer+"/ship", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", out["code"])

	status, out = call(t, app, http.MethodPost, "/api/sales", admin, map[string]any{
		"location_id": centro,
		"lines":       []map[string]any{{"product_id": product, "quantity": 3}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])
	assert.Equal(t, float64(2), stockOf(t, app, admin, product, centro))

	status, out = call(t, app, http.MethodPost, "/api/sales", admin, map[string]any{
		"location_id": norte,
		"lines":       []map[string]any{{"product_id": product, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	assert.Equal(t, "54000", out["total"])
	assert.Equal(t, float64(2), stockOf(t, app, admin, product, norte))

	status, out = call(t, app, http.MethodGet, "/api/inventory/verify", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["consistent"])
	assert.Equal(t, float64(3), out["movements_replayed"])

	status, out = call(t, app, http.MethodGet, "/api/inventory/movements?location_id="+centro, admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["items"], 2)
}

func TestAPI_ValidacionYErrores(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")

	status, out := call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"name": "Sin SKU"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	status, out = call(t, app, http.MethodGet, "/api/products/"+uuid.NewString(), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out["code"])

	mustCreate(t, app, admin, "/api/products", map[string]any{"sku": "ABC", "name": "Uno"})
	status, out = call(t, app, http.MethodPost, "/api/products", admin, map[string]any{"sku": " abc ", "name": "Dos"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", out["code"])

	loc := mustCreate(t, app, admin, "/api/locations", map[string]any{"name": "Única"})
	status, out = call(t, app, http.MethodPost, "/api/transfers", admin, map[string]any{
		"product_id": uuid.NewString(), "quantity": 1, "source_location_id": loc, "destination_location_id": loc,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_TRANSFER", out["code"])

	status, out = call(t, app, http.MethodGet, "/api/inventory/movements?from=ayer", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
}

func TestAPI_IdentificadorMalFormadoEs400(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")

	for _, path := range []string{
		"/api/transfers/not-a-uuid",
		"/api/products/no-existe",
		"/api/inventory/stock/abc/def",
		"/api/inventory/movements?product_id=abc",
		"/api/inventory/replenishment?location_id=abc",
	} {
		status, out := call(t, app, http.MethodGet, path, admin, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION", out["code"], path)
	}

	status, out := call(t, app, http.MethodPost, "/api/transfers/not-a-uuid/receive", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	loc := mustCreate(t, app, admin, "/api/locations", map[string]any{"name": "Centro"})
	status, out = call(t, app, http.MethodPost, "/api/sales", admin, map[string]any{
		"location_id": loc,
		"lines":       []map[string]any{{"product_id": "cafe", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
}

func TestAPI_AjusteYReposicion(t *testing.T) {
	app := newAPI(t)
	bodeguero := tokenForRole(t, "bodeguero")
	admin := tokenForRole(t, "admin")

	loc := mustCreate(t, app, admin, "/api/locations", map[string]any{"name": "Bodega"})
	product := mustCreate(t, app, bodeguero, "/api/products", map[string]any{
		"sku": "AZ-1", "name": "Azúcar", "stock_minimo": 10, "purchase_price": "2000", "sale_price": "3000",
	})

	status, out := call(t, app, http.MethodPost, "/api/inventory/adjustments", bodeguero, map[string]any{
		"product_id": product, "location_id": loc, "delta": 4, "reason": "conteo inicial",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	assert.NotEmpty(t, out["movement_id"])

	status, out = call(t, app, http.MethodPost, "/api/inventory/adjustments", bodeguero, map[string]any{
		"product_id": product, "location_id": loc, "delta": -5, "reason": "merma",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/replenishment?location_id="+loc, nil)
	req.Header.Set("Authorization", bodeguero)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, float64(11), list[0]["suggested_order_qty"])
}

func TestAPI_VendedorNoPuedeAjustar(t *testing.T) {
	app := newAPI(t)
	vendedor := tokenForRole(t, "vendedor")

	status, out := call(t, app, http.MethodPost, "/api/inventory/adjustments", vendedor, map[string]any{
		"product_id": "p", "location_id": "l", "delta": 1, "reason": "x",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])

	status, _ = call(t, app, http.MethodGet, "/api/inventory/verify", vendedor, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
