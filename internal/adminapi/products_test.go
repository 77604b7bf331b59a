package adminapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/invtrack/internal/domain"
)

func TestCreateProduct(t *testing.T) {
	env := newAPITestEnv(t)

	rec := env.invoke(t, createProduct, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Laptop Dell XPS", "sku": "DELL-XPS-001",
		"unit_price": 1299.99, "current_stock": 15,
		"critical_threshold": 2, "reorder_threshold": 5, "maximum_stock": 50,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["code"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "DELL-XPS-001", data["sku"])
	assert.Equal(t, "NORMAL", data["alert_state"])

	var count int64
	require.NoError(t, env.db.Model(&domain.InvProduct{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateProductValidation(t *testing.T) {
	env := newAPITestEnv(t)

	rec := env.invoke(t, createProduct, http.MethodPost, "/api/products",
		map[string]interface{}{"sku": "NO-NAME"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_NAME", decodeBody(t, rec)["code"])

	rec = env.invoke(t, createProduct, http.MethodPost, "/api/products",
		map[string]interface{}{"name": "No SKU"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_SKU", decodeBody(t, rec)["code"])

	rec = env.invoke(t, createProduct, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Bad thresholds", "sku": "BAD-1",
		"critical_threshold": 9, "reorder_threshold": 5,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_THRESHOLDS", decodeBody(t, rec)["code"])
}

func TestCreateProductDuplicateSku(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 301, "First", 10)

	rec := env.invoke(t, createProduct, http.MethodPost, "/api/products",
		map[string]interface{}{"name": "Second", "sku": "SKU-301"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_SKU", decodeBody(t, rec)["code"])
}

func TestListProductsFiltersAndSearch(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 302, "Laptop Dell", 10)
	seedActiveProduct(t, env.db, 303, "Mouse Logitech", 10)
	require.NoError(t, env.db.Create(&domain.InvProduct{
		ID: 304, Name: "Retired Keyboard", Sku: "SKU-304", IsActive: false,
	}).Error)

	rec := env.invoke(t, listProducts, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["total"], "inactive products are hidden")

	rec = env.invoke(t, listProducts, http.MethodGet, "/api/products?q=laptop", nil, nil)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"])
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Laptop Dell", rows[0].(map[string]interface{})["name"])
}

func TestGetProductDerivedAlertState(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 305, "Nearly Gone", 1)

	rec := env.invoke(t, getProduct, http.MethodGet, "/api/products/305", nil,
		map[string]string{"id": "305"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "CRITICAL", data["alert_state"])

	rec = env.invoke(t, getProduct, http.MethodGet, "/api/products/999", nil,
		map[string]string{"id": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProductKeepsStock(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 306, "Renamed", 10)

	rec := env.invoke(t, updateProduct, http.MethodPut, "/api/products/306", map[string]interface{}{
		"name": "Renamed v2", "unit_price": 42.5, "current_stock": 999,
	}, map[string]string{"id": "306"})
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.InvProduct
	require.NoError(t, env.db.First(&p, 306).Error)
	assert.Equal(t, "Renamed v2", p.Name)
	assert.InDelta(t, 42.5, p.UnitPrice, 1e-9)
	assert.Equal(t, 10, p.CurrentStock, "stock is only changed through the engine")
}

func TestDeactivateProduct(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 307, "Obsolete", 10)

	rec := env.invoke(t, deactivateProduct, http.MethodDelete, "/api/products/307", nil,
		map[string]string{"id": "307"})
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.InvProduct
	require.NoError(t, env.db.First(&p, 307).Error, "row survives deactivation")
	assert.False(t, p.IsActive)

	// selling a deactivated product is rejected as not found
	rec = env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "307", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRestockEndpoint(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 308, "Refillable", 1)

	rec := env.invoke(t, restockProduct, http.MethodPost, "/api/products/308/restock",
		map[string]interface{}{"quantity": 9, "reference": "PO-12"},
		map[string]string{"id": "308"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 10, data["new_quantity"])
	assert.Equal(t, "NORMAL", data["alert_state"])

	rec = env.invoke(t, restockProduct, http.MethodPost, "/api/products/308/restock",
		map[string]interface{}{"quantity": -1},
		map[string]string{"id": "308"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUANTITY", decodeBody(t, rec)["code"])
}

func TestSetStockEndpoint(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 309, "Counted", 8)

	rec := env.invoke(t, setProductStock, http.MethodPost, "/api/products/309/stock",
		map[string]interface{}{"new_level": 0, "notes": "shrinkage"},
		map[string]string{"id": "309"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["new_quantity"])
	assert.Equal(t, "OUT_OF_STOCK", data["alert_state"])

	rec = env.invoke(t, setProductStock, http.MethodPost, "/api/products/309/stock",
		map[string]interface{}{}, map[string]string{"id": "309"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_LEVEL", decodeBody(t, rec)["code"])
}
