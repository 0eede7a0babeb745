package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/webserver"
)

type salesSummary struct {
	StoreID      int64   `json:"store_id"`
	Days         int     `json:"days"`
	TotalSales   int64   `json:"total_sales"`
	OrderCount   int64   `json:"order_count"`
	AverageOrder float64 `json:"average_order"`
}

type popularProduct struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalSales    int64  `json:"total_sales"`
}

type salesTrendPoint struct {
	Day        string `json:"day"`
	TotalSales int64  `json:"total_sales"`
	OrderCount int64  `json:"order_count"`
}

func registerSalesRoutes(g *echo.Group) {
	g.GET("/sales/summary", getSalesSummary)
	g.GET("/sales/popular-products", getPopularProducts)
	g.GET("/sales/trends", getSalesTrends)
}

func salesWindow(c echo.Context, defaultDays int) (storeID int64, days int, since time.Time, err error) {
	storeID, err = strconv.ParseInt(c.QueryParam("store_id"), 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	days = defaultDays
	if d, derr := strconv.Atoi(c.QueryParam("days")); derr == nil && d > 0 && d <= 365 {
		days = d
	}
	since = time.Now().AddDate(0, 0, -days)
	return storeID, days, since, nil
}

func getSalesSummary(c echo.Context) error {
	storeID, days, since, err := salesWindow(c, 7)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "store_id query parameter is required", nil)
	}

	var row struct {
		TotalSales int64
		OrderCount int64
	}
	err = GetDB(c).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_sales, COUNT(*) AS order_count").
		Where("store_id = ? AND ordered_at >= ?", storeID, since).
		Scan(&row).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", nil)
	}

	summary := salesSummary{
		StoreID:    storeID,
		Days:       days,
		TotalSales: row.TotalSales,
		OrderCount: row.OrderCount,
	}
	if row.OrderCount > 0 {
		summary.AverageOrder = float64(row.TotalSales) / float64(row.OrderCount)
	}
	return ok(c, summary)
}

func getPopularProducts(c echo.Context) error {
	storeID, _, since, err := salesWindow(c, 7)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "store_id query parameter is required", nil)
	}
	limit := 10
	if l, lerr := strconv.Atoi(c.QueryParam("limit")); lerr == nil && l > 0 && l <= 100 {
		limit = l
	}

	rows := make([]popularProduct, 0)
	err = GetDB(c).Table("order_details").
		Select("order_details.product_id, products.name AS product_name, "+
			"SUM(order_details.quantity) AS total_quantity, "+
			"SUM(order_details.quantity * order_details.unit_price) AS total_sales").
		Joins("JOIN orders ON orders.id = order_details.order_id").
		Joins("JOIN products ON products.id = order_details.product_id").
		Where("orders.store_id = ? AND orders.ordered_at >= ?", storeID, since).
		Group("order_details.product_id, products.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query popular products", nil)
	}
	return ok(c, rows)
}

// getSalesTrends reads the daily_sales rollup rather than re-aggregating
// orders; the rollup is advanced by the order-committed subscriber and
// reconciled nightly, so it may trail live orders by a few seconds.
func getSalesTrends(c echo.Context) error {
	defaultDays := 7
	if s := webserver.GetSettings(c); s != nil {
		if d := s.GetInt("sales", "TrendDays"); d > 0 {
			defaultDays = d
		}
	}
	storeID, _, since, err := salesWindow(c, defaultDays)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "store_id query parameter is required", nil)
	}

	rows := make([]salesTrendPoint, 0)
	err = GetDB(c).Model(&domain.DailySales{}).
		Select("day, total_sales, order_count").
		Where("store_id = ? AND day >= ?", storeID, since.Format("2006-01-02")).
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales trends", nil)
	}
	return ok(c, rows)
}
