package adminapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/invtrack/internal/domain"
)

func TestCreateSale(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 401, "Widget", 10)

	rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "401", "quantity": 3, "customer_name": "Ana",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 7, data["new_quantity"])
	assert.NotEmpty(t, data["sale_number"])

	var record domain.InvSaleRecord
	require.NoError(t, env.db.Where("product_id = ?", 401).First(&record).Error)
	assert.Equal(t, 3, record.Quantity)
	assert.Equal(t, "CASH", record.PaymentMethod, "payment method defaults to cash")
	assert.InDelta(t, 30.0, record.TotalAmount, 1e-9)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 402, "Scarce", 2)

	rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "402", "quantity": 5,
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	detail := body["detail"].(map[string]interface{})
	assert.EqualValues(t, 5, detail["requested"])
	assert.EqualValues(t, 2, detail["available"])

	// the rejected sale is not in the ledger and stock is unchanged
	var sales int64
	require.NoError(t, env.db.Model(&domain.InvSaleRecord{}).Count(&sales).Error)
	assert.Zero(t, sales)
	var p domain.InvProduct
	require.NoError(t, env.db.First(&p, 402).Error)
	assert.Equal(t, 2, p.CurrentStock)
}

func TestCreateSaleErrors(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 403, "Widget", 10)

	rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "999", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rec)["code"])

	rec = env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "403", "quantity": 0,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUANTITY", decodeBody(t, rec)["code"])
}

func TestListSalesAndMovements(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 404, "Widget", 10)
	seedActiveProduct(t, env.db, 405, "Gadget", 10)

	for _, sale := range []map[string]interface{}{
		{"product_id": "404", "quantity": 2},
		{"product_id": "404", "quantity": 1},
		{"product_id": "405", "quantity": 4},
	} {
		rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", sale, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.invoke(t, listSales, http.MethodGet, "/api/sales", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decodeBody(t, rec)["total"])

	rec = env.invoke(t, listSales, http.MethodGet, "/api/sales?product_id=404", nil, nil)
	assert.EqualValues(t, 2, decodeBody(t, rec)["total"])

	rec = env.invoke(t, listMovements, http.MethodGet, "/api/movements?type=OUT", nil, nil)
	assert.EqualValues(t, 3, decodeBody(t, rec)["total"])
}

func TestGetSale(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 406, "Widget", 10)

	rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "406", "quantity": 1,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saleID := decodeBody(t, rec)["data"].(map[string]interface{})["sale_id"].(string)

	rec = env.invoke(t, getSale, http.MethodGet, "/api/sales/"+saleID, nil,
		map[string]string{"id": saleID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.invoke(t, getSale, http.MethodGet, "/api/sales/1", nil,
		map[string]string{"id": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
