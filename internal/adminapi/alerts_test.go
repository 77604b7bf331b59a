package adminapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/invtrack/internal/domain"
)

func seedAlert(t *testing.T, env *apiTestEnv, id, productID int64, isRead bool) {
	t.Helper()
	require.NoError(t, env.db.Create(&domain.InvAlert{
		ID: id, ProductID: productID, Type: domain.AlertLowStock,
		Message: "low stock", IsRead: isRead, CreatedAt: time.Now(),
	}).Error)
}

func TestListAlerts(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 501, "Widget", 1)
	seedAlert(t, env, 1, 501, false)
	seedAlert(t, env, 2, 501, true)

	rec := env.invoke(t, listAlerts, http.MethodGet, "/api/alerts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"], "unread only by default")
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Widget", row["product_name"])
	assert.Equal(t, "SKU-501", row["sku"])

	rec = env.invoke(t, listAlerts, http.MethodGet, "/api/alerts?all=true", nil, nil)
	assert.EqualValues(t, 2, decodeBody(t, rec)["total"])
}

func TestMarkAlertRead(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 502, "Widget", 1)
	seedAlert(t, env, 3, 502, false)

	rec := env.invoke(t, markAlertRead, http.MethodPost, "/api/alerts/3/read", nil,
		map[string]string{"id": "3"})
	require.Equal(t, http.StatusOK, rec.Code)

	var alert domain.InvAlert
	require.NoError(t, env.db.First(&alert, 3).Error)
	assert.True(t, alert.IsRead)

	rec = env.invoke(t, markAlertRead, http.MethodPost, "/api/alerts/99/read", nil,
		map[string]string{"id": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	env := newAPITestEnv(t)
	seedActiveProduct(t, env.db, 503, "Healthy", 20)
	seedActiveProduct(t, env.db, 504, "Low", 4)
	seedActiveProduct(t, env.db, 505, "Critical", 1)
	require.NoError(t, env.db.Model(&domain.InvProduct{}).Where("id = ?", 505).
		Update("cost_price", 2.5).Error)
	rec := env.invoke(t, createSale, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": "503", "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.invoke(t, dashboardStats, http.MethodGet, "/api/dashboard/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total_products"])
	assert.EqualValues(t, 2, data["low_stock_count"])
	assert.EqualValues(t, 1, data["critical_count"])
	assert.EqualValues(t, 0, data["out_of_stock_count"])
	assert.EqualValues(t, 1, data["today_sales_count"])
	assert.InDelta(t, 20.0, data["today_sales_amount"].(float64), 1e-9)
}
