package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/internal/webserver"
	"github.com/invtrack/invtrack/pkg/common"
)

type productPayload struct {
	Name              string   `json:"name"`
	Sku               string   `json:"sku"`
	CategoryID        int64    `json:"category_id,string"`
	SupplierID        int64    `json:"supplier_id,string"`
	Description       string   `json:"description"`
	UnitPrice         *float64 `json:"unit_price"`
	CostPrice         *float64 `json:"cost_price"`
	CurrentStock      *int     `json:"current_stock"`
	CriticalThreshold *int     `json:"critical_threshold"`
	ReorderThreshold  *int     `json:"reorder_threshold"`
	MaximumStock      *int     `json:"maximum_stock"`
	Location          string   `json:"location"`
	Barcode           string   `json:"barcode"`
}

// productView wraps a product row with its derived alert state.
type productView struct {
	domain.InvProduct
	AlertState stock.AlertState `json:"alert_state"`
}

func viewOf(p domain.InvProduct) productView {
	return productView{InvProduct: p, AlertState: stock.ComputeAlertState(&p)}
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deactivateProduct)
	webserver.ApiPOST("/products/:id/restock", restockProduct)
	webserver.ApiPOST("/products/:id/stock", setProductStock)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":            "id",
		"name":          "name",
		"sku":           "sku",
		"unit_price":    "unit_price",
		"current_stock": "current_stock",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.InvProduct{}).Where("is_active = ?", true)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if cid := c.QueryParam("category_id"); cid != "" {
		db = db.Where("category_id = ?", cid)
	}
	if sid := c.QueryParam("supplier_id"); sid != "" {
		db = db.Where("supplier_id = ?", sid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.InvProduct
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	views := make([]productView, 0, len(rows))
	for _, p := range rows {
		views = append(views, viewOf(p))
	}
	return paged(c, views, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.InvProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, viewOf(p))
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Sku = strings.TrimSpace(payload.Sku)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Product name is required", nil)
	}
	if payload.Sku == "" {
		return fail(c, http.StatusBadRequest, "MISSING_SKU", "Product SKU is required", nil)
	}
	if payload.UnitPrice != nil && *payload.UnitPrice < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Unit price must not be negative", nil)
	}
	if payload.CurrentStock != nil && *payload.CurrentStock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_STOCK", "Stock must not be negative", nil)
	}

	var dup domain.InvProduct
	if err := GetDB(c).Where("sku = ?", payload.Sku).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_SKU", "Product with this SKU already exists", nil)
	}

	p := domain.InvProduct{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Sku:         payload.Sku,
		CategoryID:  payload.CategoryID,
		SupplierID:  payload.SupplierID,
		Description: payload.Description,
		Location:    payload.Location,
		Barcode:     payload.Barcode,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if payload.UnitPrice != nil {
		p.UnitPrice = *payload.UnitPrice
	}
	if payload.CostPrice != nil {
		p.CostPrice = *payload.CostPrice
	}
	if payload.CurrentStock != nil {
		p.CurrentStock = *payload.CurrentStock
	}
	if payload.CriticalThreshold != nil {
		p.CriticalThreshold = *payload.CriticalThreshold
	}
	if payload.ReorderThreshold != nil {
		p.ReorderThreshold = *payload.ReorderThreshold
	}
	if payload.MaximumStock != nil {
		p.MaximumStock = *payload.MaximumStock
	}
	if p.CriticalThreshold > p.ReorderThreshold {
		return fail(c, http.StatusBadRequest, "INVALID_THRESHOLDS",
			"Critical threshold must not exceed the reorder threshold", nil)
	}

	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, viewOf(p))
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	var p domain.InvProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	// descriptive fields only; current_stock changes go through the
	// stock endpoints so they always pass the engine
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(payload.Name); name != "" {
		updates["name"] = name
	}
	if sku := strings.TrimSpace(payload.Sku); sku != "" && sku != p.Sku {
		var dup domain.InvProduct
		if err := GetDB(c).Where("sku = ? AND id != ?", sku, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_SKU", "Another product with this SKU already exists", nil)
		}
		updates["sku"] = sku
	}
	if payload.CategoryID != 0 {
		updates["category_id"] = payload.CategoryID
	}
	if payload.SupplierID != 0 {
		updates["supplier_id"] = payload.SupplierID
	}
	if payload.Description != "" {
		updates["description"] = payload.Description
	}
	if payload.UnitPrice != nil {
		if *payload.UnitPrice < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Unit price must not be negative", nil)
		}
		updates["unit_price"] = *payload.UnitPrice
	}
	if payload.CostPrice != nil {
		updates["cost_price"] = *payload.CostPrice
	}
	critical, reorder := p.CriticalThreshold, p.ReorderThreshold
	if payload.CriticalThreshold != nil {
		critical = *payload.CriticalThreshold
		updates["critical_threshold"] = critical
	}
	if payload.ReorderThreshold != nil {
		reorder = *payload.ReorderThreshold
		updates["reorder_threshold"] = reorder
	}
	if critical > reorder {
		return fail(c, http.StatusBadRequest, "INVALID_THRESHOLDS",
			"Critical threshold must not exceed the reorder threshold", nil)
	}
	if payload.MaximumStock != nil {
		updates["maximum_stock"] = *payload.MaximumStock
	}
	if payload.Location != "" {
		updates["location"] = payload.Location
	}
	if payload.Barcode != "" {
		updates["barcode"] = payload.Barcode
	}
	updates["updated_at"] = time.Now()

	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, viewOf(p))
}

// deactivateProduct soft-deactivates a product. Rows are never removed:
// the sales ledger references them.
func deactivateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	result := GetDB(c).Model(&domain.InvProduct{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to deactivate product", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id, "is_active": false})
}

type stockPayload struct {
	Quantity  *int   `json:"quantity"`
	NewLevel  *int   `json:"new_level"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

func restockProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse restock parameters", err.Error())
	}
	if payload.Quantity == nil {
		return fail(c, http.StatusBadRequest, "MISSING_QUANTITY", "Restock quantity is required", nil)
	}

	outcome, err := GetEngine(c).Restock(c.Request().Context(), id, *payload.Quantity,
		payload.Reference, payload.Notes, sessionUsername(c))
	if err != nil {
		return stockError(c, err)
	}
	return ok(c, outcome)
}

func setProductStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock parameters", err.Error())
	}
	if payload.NewLevel == nil {
		return fail(c, http.StatusBadRequest, "MISSING_LEVEL", "New stock level is required", nil)
	}

	outcome, err := GetEngine(c).SetStockLevel(c.Request().Context(), id, *payload.NewLevel,
		payload.Notes, sessionUsername(c))
	if err != nil {
		return stockError(c, err)
	}
	return ok(c, outcome)
}

// stockError maps the engine's typed errors onto HTTP responses.
func stockError(c echo.Context, err error) error {
	var nf *stock.NotFoundError
	var iq *stock.InvalidQuantityError
	var is *stock.InsufficientStockError
	switch {
	case errors.As(err, &nf):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", map[string]interface{}{
			"product_id": nf.ProductID,
		})
	case errors.As(err, &iq):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), map[string]interface{}{
			"quantity": iq.Quantity,
		})
	case errors.As(err, &is):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), map[string]interface{}{
			"product_id": is.ProductID,
			"requested":  is.Requested,
			"available":  is.Available,
		})
	case stock.IsContention(err):
		return fail(c, http.StatusServiceUnavailable, "CONTENTION", "Stock transaction conflict, please retry", nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Stock operation failed", err.Error())
}
