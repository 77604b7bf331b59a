package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/internal/webserver"
)

func registerSaleRoutes() {
	webserver.ApiGET("/sales", listSales)
	webserver.ApiGET("/sales/:id", getSale)
	webserver.ApiPOST("/sales", createSale)
	webserver.ApiGET("/movements", listMovements)
}

type salePayload struct {
	ProductID     int64  `json:"product_id,string"`
	Quantity      int    `json:"quantity"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

func listSales(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InvSaleRecord{})
	if pid := c.QueryParam("product_id"); pid != "" {
		db = db.Where("product_id = ?", pid)
	}
	if from := c.QueryParam("from"); from != "" {
		if t, err := dateparse.ParseAny(from); err == nil {
			db = db.Where("sold_at >= ?", t)
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, err := dateparse.ParseAny(to); err == nil {
			db = db.Where("sold_at <= ?", t)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}
	var rows []domain.InvSaleRecord
	if err := db.Order("sold_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getSale(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	var row domain.InvSaleRecord
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Sale not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sale", err.Error())
	}
	return ok(c, row)
}

// createSale runs the sale through the stock engine. A transient
// contention failure is retried a bounded number of times with backoff;
// business rejections are surfaced immediately.
func createSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale parameters", err.Error())
	}

	req := stock.SaleRequest{
		ProductID:     payload.ProductID,
		Quantity:      payload.Quantity,
		CustomerName:  payload.CustomerName,
		CustomerEmail: payload.CustomerEmail,
		CustomerPhone: payload.CustomerPhone,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
		CreatedBy:     sessionUsername(c),
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "CASH"
	}

	maxRetries := int(GetSettings(c).GetSettingsInt64Value("stock", "sale_max_retries"))
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var outcome *stock.SaleOutcome
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		outcome, err = GetEngine(c).RecordSale(c.Request().Context(), req)
		if err == nil || !stock.IsContention(err) {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	if err != nil {
		return stockError(c, err)
	}
	return ok(c, outcome)
}

func listMovements(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.InvStockMovement{})
	if pid := c.QueryParam("product_id"); pid != "" {
		db = db.Where("product_id = ?", pid)
	}
	if mt := c.QueryParam("type"); mt != "" {
		db = db.Where("type = ?", mt)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query movements", err.Error())
	}
	var rows []domain.InvStockMovement
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query movements", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
