package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/webserver"
)

func registerAlertRoutes() {
	webserver.ApiGET("/alerts", listAlerts)
	webserver.ApiPOST("/alerts/:id/read", markAlertRead)
}

// alertView joins alert rows with product name and SKU for display.
type alertView struct {
	domain.InvAlert
	ProductName string `json:"product_name"`
	Sku         string `json:"sku"`
}

func listAlerts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InvAlert{}).Where("inv_alert.is_read = ?", false)
	if c.QueryParam("all") == "true" {
		db = GetDB(c).Model(&domain.InvAlert{})
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alerts", err.Error())
	}

	var rows []alertView
	err := db.
		Select("inv_alert.*, inv_product.name AS product_name, inv_product.sku AS sku").
		Joins("JOIN inv_product ON inv_product.id = inv_alert.product_id").
		Order("inv_alert.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alerts", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func markAlertRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid alert ID", nil)
	}
	result := GetDB(c).Model(&domain.InvAlert{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update alert", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Alert not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id, "is_read": true})
}
