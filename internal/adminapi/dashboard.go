package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/webserver"
	"github.com/invtrack/invtrack/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats)
	webserver.ApiGET("/dashboard/sales_series", dashboardSalesSeries)
}

type dashboardStatsView struct {
	TotalProducts    int64   `json:"total_products"`
	LowStockCount    int64   `json:"low_stock_count"`
	CriticalCount    int64   `json:"critical_count"`
	OutOfStockCount  int64   `json:"out_of_stock_count"`
	InventoryValue   float64 `json:"inventory_value"`
	TodaySalesCount  int64   `json:"today_sales_count"`
	TodaySalesAmount float64 `json:"today_sales_amount"`
	MonthSalesCount  int64   `json:"month_sales_count"`
	MonthSalesAmount float64 `json:"month_sales_amount"`
	UnreadAlerts     int64   `json:"unread_alerts"`
}

func dashboardStats(c echo.Context) error {
	db := GetDB(c)
	var view dashboardStatsView

	active := db.Model(&domain.InvProduct{}).Where("is_active = ?", true)
	if err := active.Count(&view.TotalProducts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err.Error())
	}
	db.Model(&domain.InvProduct{}).
		Where("is_active = ? AND current_stock <= reorder_threshold", true).
		Count(&view.LowStockCount)
	db.Model(&domain.InvProduct{}).
		Where("is_active = ? AND current_stock <= critical_threshold", true).
		Count(&view.CriticalCount)
	db.Model(&domain.InvProduct{}).
		Where("is_active = ? AND current_stock = 0", true).
		Count(&view.OutOfStockCount)

	var value *float64
	db.Model(&domain.InvProduct{}).Where("is_active = ?", true).
		Select("SUM(current_stock * cost_price)").Scan(&value)
	if value != nil {
		view.InventoryValue = *value
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type saleAgg struct {
		Count  int64
		Amount *float64
	}
	var today, month saleAgg
	db.Model(&domain.InvSaleRecord{}).Where("sold_at >= ?", dayStart).
		Select("COUNT(*) AS count, SUM(total_amount) AS amount").Scan(&today)
	db.Model(&domain.InvSaleRecord{}).Where("sold_at >= ?", monthStart).
		Select("COUNT(*) AS count, SUM(total_amount) AS amount").Scan(&month)
	view.TodaySalesCount = today.Count
	if today.Amount != nil {
		view.TodaySalesAmount = *today.Amount
	}
	view.MonthSalesCount = month.Count
	if month.Amount != nil {
		view.MonthSalesAmount = *month.Amount
	}

	db.Model(&domain.InvAlert{}).Where("is_read = ?", false).Count(&view.UnreadAlerts)

	return ok(c, view)
}

// dashboardSalesSeries returns the locally recorded sale metrics for
// sparkline rendering; defaults to the last 24h.
func dashboardSalesSeries(c echo.Context) error {
	end := time.Now().Unix()
	start := end - 24*3600
	points := metrics.Select(metrics.MetricSaleAmount, start, end)

	type point struct {
		Timestamp int64   `json:"timestamp"`
		Value     float64 `json:"value"`
	}
	series := make([]point, 0, len(points))
	for _, p := range points {
		series = append(series, point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return ok(c, series)
}
