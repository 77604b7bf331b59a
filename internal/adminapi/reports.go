package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/internal/webserver"
)

func registerReportRoutes() {
	webserver.ApiGET("/reports/sales", salesReport)
	webserver.ApiGET("/reports/sales/export.xlsx", exportSalesReport)
	webserver.ApiGET("/reports/products/export.csv", exportProducts)
	webserver.ApiGET("/reports/low_stock", lowStockReport)
}

// reportRange parses from/to query parameters, accepting anything
// dateparse understands. Defaults to the last 30 days.
func reportRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if from := c.QueryParam("from"); from != "" {
		t, err := dateparse.ParseAny(from)
		if err != nil {
			return start, end, fmt.Errorf("invalid from date: %w", err)
		}
		start = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := dateparse.ParseAny(to)
		if err != nil {
			return start, end, fmt.Errorf("invalid to date: %w", err)
		}
		end = t
	}
	return start, end, nil
}

type salesSummary struct {
	TotalSales    int64   `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
	MedianAmount  float64 `json:"median_sale_amount"`
}

type topProduct struct {
	ProductID    int64   `json:"product_id,string"`
	Name         string  `json:"name"`
	TotalSold    int64   `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

type dailySales struct {
	Day     string  `json:"day"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

func salesReport(c echo.Context) error {
	start, end, err := reportRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
	}
	db := GetDB(c)

	var records []domain.InvSaleRecord
	if err := db.Where("sold_at >= ? AND sold_at <= ?", start, end).
		Order("sold_at ASC").Find(&records).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	amounts := make([]float64, 0, len(records))
	daily := map[string]*dailySales{}
	for _, r := range records {
		amounts = append(amounts, r.TotalAmount)
		day := r.SoldAt.Format("2006-01-02")
		d, okDay := daily[day]
		if !okDay {
			d = &dailySales{Day: day}
			daily[day] = d
		}
		d.Count++
		d.Revenue += r.TotalAmount
	}

	summary := salesSummary{TotalSales: int64(len(records))}
	if len(amounts) > 0 {
		summary.TotalRevenue, _ = stats.Sum(amounts)
		summary.AvgSaleAmount, _ = stats.Mean(amounts)
		summary.MedianAmount, _ = stats.Median(amounts)
	}

	var top []topProduct
	db.Model(&domain.InvSaleRecord{}).
		Select("inv_sale_record.product_id AS product_id, inv_product.name AS name, SUM(inv_sale_record.quantity) AS total_sold, SUM(inv_sale_record.total_amount) AS total_revenue").
		Joins("JOIN inv_product ON inv_product.id = inv_sale_record.product_id").
		Where("inv_sale_record.sold_at >= ? AND inv_sale_record.sold_at <= ?", start, end).
		Group("inv_sale_record.product_id, inv_product.name").
		Order("total_sold DESC").
		Limit(10).
		Scan(&top)

	days := make([]dailySales, 0, len(daily))
	for _, d := range daily {
		days = append(days, *d)
	}

	return ok(c, map[string]interface{}{
		"from":         start.Format(time.RFC3339),
		"to":           end.Format(time.RFC3339),
		"summary":      summary,
		"top_products": top,
		"daily_sales":  days,
	})
}

func exportSalesReport(c echo.Context) error {
	start, end, err := reportRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
	}

	var records []domain.InvSaleRecord
	if err := GetDB(c).Where("sold_at >= ? AND sold_at <= ?", start, end).
		Order("sold_at ASC").Find(&records).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	xlsx := excelize.NewFile()
	headers := []string{"Sale Number", "Product ID", "Quantity", "Unit Price", "Total", "Payment", "Sold At"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		xlsx.SetCellValue("Sheet1", cell, h)
	}
	for i, r := range records {
		row := i + 2
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("A%d", row), r.SaleNumber)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("B%d", row), r.ProductID)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("C%d", row), r.Quantity)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("D%d", row), r.UnitPrice)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("E%d", row), r.TotalAmount)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("F%d", row), r.PaymentMethod)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("G%d", row), r.SoldAt.Format(time.RFC3339))
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales_report.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}

// productCsvRow defines the CSV export layout.
type productCsvRow struct {
	Sku               string  `csv:"sku"`
	Name              string  `csv:"name"`
	UnitPrice         float64 `csv:"unit_price"`
	CostPrice         float64 `csv:"cost_price"`
	CurrentStock      int     `csv:"current_stock"`
	CriticalThreshold int     `csv:"critical_threshold"`
	ReorderThreshold  int     `csv:"reorder_threshold"`
	Location          string  `csv:"location"`
	AlertState        string  `csv:"alert_state"`
}

func exportProducts(c echo.Context) error {
	var products []domain.InvProduct
	if err := GetDB(c).Where("is_active = ?", true).Order("name ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	rows := make([]productCsvRow, 0, len(products))
	for i := range products {
		p := products[i]
		rows = append(rows, productCsvRow{
			Sku:               p.Sku,
			Name:              p.Name,
			UnitPrice:         p.UnitPrice,
			CostPrice:         p.CostPrice,
			CurrentStock:      p.CurrentStock,
			CriticalThreshold: p.CriticalThreshold,
			ReorderThreshold:  p.ReorderThreshold,
			Location:          p.Location,
			AlertState:        string(stock.ComputeAlertState(&p)),
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

func lowStockReport(c echo.Context) error {
	var products []domain.InvProduct
	err := GetDB(c).
		Where("is_active = ? AND current_stock <= reorder_threshold", true).
		Order("(current_stock - reorder_threshold) ASC").
		Find(&products).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	return ok(c, views)
}
