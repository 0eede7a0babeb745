package kioskapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kiosklab/vendtix/internal/webserver"
)

type menuProduct struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	Price        int    `json:"price"`
	Stock        int    `json:"stock"`
	ImageURL     string `json:"image_url"`
}

// listStoreProducts returns the kiosk menu: on-sale products with stock
// remaining, with category and price resolved in one query.
func listStoreProducts(c echo.Context) error {
	storeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}

	rows := make([]menuProduct, 0)
	err = webserver.GetDB(c).Table("store_inventories").
		Select("products.id AS product_id, products.name AS product_name, categories.name AS category_name, " +
			"products.standard_price AS price, store_inventories.current_stock AS stock, products.image_url AS image_url").
		Joins("JOIN products ON products.id = store_inventories.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("store_inventories.store_id = ? AND store_inventories.is_on_sale = ? AND store_inventories.current_stock > 0",
			storeID, true).
		Order("products.id").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}

	if s := webserver.GetSettings(c); s != nil {
		if secs := s.GetInt("kiosk", "MenuCacheSeconds"); secs > 0 {
			c.Response().Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", secs))
		}
	}
	return ok(c, rows)
}
