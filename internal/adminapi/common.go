package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/app"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/internal/webserver"
)

// RegisterRoutes attaches every admin API handler to the web server.
func RegisterRoutes() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerSupplierRoutes()
	registerSaleRoutes()
	registerAlertRoutes()
	registerDashboardRoutes()
	registerReportRoutes()
	registerStatusRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextKeyDB).(*gorm.DB)
}

// GetEngine returns the stock adjustment engine.
func GetEngine(c echo.Context) *stock.Engine {
	return c.Get(webserver.ContextKeyEngine).(*stock.Engine)
}

// GetSettings returns the settings provider.
func GetSettings(c echo.Context) app.SettingsProvider {
	return c.Get(webserver.ContextKeySettings).(app.SettingsProvider)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      "OK",
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	} else if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
