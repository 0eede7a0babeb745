package adminapi

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/webserver"
)

type productPayload struct {
	Name          string `json:"name"`
	CategoryID    int64  `json:"category_id"`
	StandardPrice *int   `json:"standard_price"`
	ImageURL      string `json:"image_url"`
}

// productView is a product row joined with its category name and the
// inventory of the selected store.
type productView struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name"`
	StandardPrice int    `json:"standard_price"`
	ImageURL      string `json:"image_url"`
	Stock         int    `json:"stock"`
	IsOnSale      bool   `json:"is_on_sale"`
}

func registerProductRoutes(g *echo.Group) {
	g.GET("/products", listProducts)
	g.GET("/products/:id", getProduct)
	g.POST("/products", createProduct)
	g.PUT("/products/:id", updateProduct)
	g.DELETE("/products/:id", deleteProduct)
	g.POST("/products/upload-image", uploadProductImage)
}

func listProducts(c echo.Context) error {
	storeID := int64(1)
	if v, err := strconv.ParseInt(c.QueryParam("store_id"), 10, 64); err == nil && v > 0 {
		storeID = v
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Table("products").
		Select("products.id AS product_id, products.name AS product_name, products.category_id, "+
			"categories.name AS category_name, products.standard_price, products.image_url, "+
			"COALESCE(store_inventories.current_stock, 0) AS stock, "+
			"COALESCE(store_inventories.is_on_sale, false) AS is_on_sale").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN store_inventories ON store_inventories.product_id = products.id AND store_inventories.store_id = ?", storeID)

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		base = base.Where("products.name ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}

	rows := make([]productView, 0)
	if err := base.Order("products.id").Offset((page - 1) * pageSize).Limit(pageSize).Scan(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", nil)
	}
	return ok(c, product)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Product name is required", nil)
	}
	if payload.StandardPrice == nil || *payload.StandardPrice < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Standard price must be >= 0", nil)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", payload.CategoryID).First(&category).Error; err != nil {
		return fail(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND", "Category does not exist", nil)
	}

	product := domain.Product{
		Name:          payload.Name,
		CategoryID:    payload.CategoryID,
		StandardPrice: *payload.StandardPrice,
		ImageURL:      strings.TrimSpace(payload.ImageURL),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := GetDB(c).Create(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", nil)
	}
	return ok(c, product)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}

	if payload.CategoryID != 0 {
		var category domain.Category
		if err := GetDB(c).Where("id = ?", payload.CategoryID).First(&category).Error; err != nil {
			return fail(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND", "Category does not exist", nil)
		}
		product.CategoryID = payload.CategoryID
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		product.Name = name
	}
	if payload.StandardPrice != nil {
		if *payload.StandardPrice < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Standard price must be >= 0", nil)
		}
		product.StandardPrice = *payload.StandardPrice
	}
	if img := strings.TrimSpace(payload.ImageURL); img != "" {
		product.ImageURL = img
	}
	product.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", nil)
	}
	return ok(c, product)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", nil)
	}

	var inventoryCount int64
	if err := GetDB(c).Model(&domain.StoreInventory{}).Where("product_id = ?", id).Count(&inventoryCount).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inventories", nil)
	}
	if inventoryCount > 0 {
		return fail(c, http.StatusBadRequest, "PRODUCT_IN_USE",
			"Product still has inventories attached", map[string]interface{}{"inventory_count": inventoryCount})
	}

	if err := GetDB(c).Delete(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

// uploadProductImage stores an uploaded file under the workdir and
// returns the public URL. Filenames get a uuid prefix so uploads never
// clobber each other.
func uploadProductImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "MISSING_FILE", "No file uploaded", nil)
	}

	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to read uploaded file", nil)
	}
	defer src.Close()

	uploadDir := path.Join(webserver.GetConfig(c).System.Workdir, "public", "images")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to prepare upload directory", nil)
	}

	filename := uuid.NewString() + "_" + filepath.Base(file.Filename)
	dst, err := os.Create(path.Join(uploadDir, filename))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store uploaded file", nil)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store uploaded file", nil)
	}

	return ok(c, map[string]interface{}{"image_url": "/images/" + filename})
}
