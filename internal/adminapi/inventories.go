package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/ordering"
	"github.com/kiosklab/vendtix/internal/webserver"
)

type inventoryPayload struct {
	StoreID      int64 `json:"store_id"`
	ProductID    int64 `json:"product_id"`
	CurrentStock int   `json:"current_stock"`
	IsOnSale     bool  `json:"is_on_sale"`
}

type inventoryStockPayload struct {
	CurrentStock *int `json:"current_stock"`
}

type inventorySaleStatusPayload struct {
	IsOnSale *bool `json:"is_on_sale"`
}

type inventoryView struct {
	StoreID       int64  `json:"store_id"`
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	CategoryName  string `json:"category_name"`
	StandardPrice int    `json:"standard_price"`
	ImageURL      string `json:"image_url"`
	CurrentStock  int    `json:"current_stock"`
	IsOnSale      bool   `json:"is_on_sale"`
}

func registerInventoryRoutes(g *echo.Group) {
	g.GET("/inventories", listInventories)
	g.POST("/inventories", createInventory)
	g.PUT("/inventories/:store_id/:product_id/stock", setInventoryStock)
	g.PUT("/inventories/:store_id/:product_id/sale-status", setInventorySaleStatus)
}

func listInventories(c echo.Context) error {
	storeID, err := strconv.ParseInt(c.QueryParam("store_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "store_id query parameter is required", nil)
	}

	rows := make([]inventoryView, 0)
	err = GetDB(c).Table("store_inventories").
		Select("store_inventories.store_id, store_inventories.product_id, products.name AS product_name, "+
			"categories.name AS category_name, products.standard_price, products.image_url, "+
			"store_inventories.current_stock, store_inventories.is_on_sale").
		Joins("JOIN products ON products.id = store_inventories.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("store_inventories.store_id = ?", storeID).
		Order("store_inventories.product_id").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventories", nil)
	}
	return ok(c, rows)
}

func createInventory(c echo.Context) error {
	var payload inventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inventory", nil)
	}
	if payload.CurrentStock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_STOCK", "Stock must be >= 0", nil)
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", payload.ProductID).First(&product).Error; err != nil {
		return fail(c, http.StatusBadRequest, "PRODUCT_NOT_FOUND", "Product does not exist", nil)
	}
	var store domain.Store
	if err := GetDB(c).Where("id = ?", payload.StoreID).First(&store).Error; err != nil {
		return fail(c, http.StatusBadRequest, "STORE_NOT_FOUND", "Store does not exist", nil)
	}

	var dup domain.StoreInventory
	err := GetDB(c).Where("store_id = ? AND product_id = ?", payload.StoreID, payload.ProductID).First(&dup).Error
	if err == nil {
		return fail(c, http.StatusBadRequest, "DUPLICATE_INVENTORY",
			"Inventory for this store and product already exists", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventory", nil)
	}

	inv := domain.StoreInventory{
		StoreID:      payload.StoreID,
		ProductID:    payload.ProductID,
		CurrentStock: payload.CurrentStock,
		IsOnSale:     payload.IsOnSale,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := GetDB(c).Create(&inv).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create inventory", nil)
	}
	return ok(c, inv)
}

// setInventoryStock is the absolute stock overwrite. It goes through the
// ordering ledger so the write takes the same row lock as concurrent
// order decrements; a plain UPDATE here could silently undo a decrement
// committed in between read and write.
func setInventoryStock(c echo.Context) error {
	storeID, err1 := parseIDParam(c, "store_id")
	productID, err2 := parseIDParam(c, "product_id")
	if err1 != nil || err2 != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store or product ID", nil)
	}

	var payload inventoryStockPayload
	if err := c.Bind(&payload); err != nil || payload.CurrentStock == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "current_stock is required", nil)
	}
	if *payload.CurrentStock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_STOCK", "Stock must be >= 0", nil)
	}

	err := webserver.GetPlacer(c).SetStock(c.Request().Context(), storeID, productID, *payload.CurrentStock)
	if errors.Is(err, ordering.ErrInventoryNotFound) {
		return fail(c, http.StatusNotFound, "INVENTORY_NOT_FOUND", "Inventory not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update stock", nil)
	}
	return ok(c, map[string]interface{}{"current_stock": *payload.CurrentStock})
}

func setInventorySaleStatus(c echo.Context) error {
	storeID, err1 := parseIDParam(c, "store_id")
	productID, err2 := parseIDParam(c, "product_id")
	if err1 != nil || err2 != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store or product ID", nil)
	}

	var payload inventorySaleStatusPayload
	if err := c.Bind(&payload); err != nil || payload.IsOnSale == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "is_on_sale is required", nil)
	}

	result := GetDB(c).Model(&domain.StoreInventory{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Updates(map[string]interface{}{"is_on_sale": *payload.IsOnSale, "updated_at": time.Now()})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update sale status", nil)
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "INVENTORY_NOT_FOUND", "Inventory not found", nil)
	}
	return ok(c, map[string]interface{}{"is_on_sale": *payload.IsOnSale})
}
