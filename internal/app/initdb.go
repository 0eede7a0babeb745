package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/pkg/common"
)

// Region master data for the initial deployment area. Prefecture ids are
// JIS codes, municipality ids the extended JIS codes.
const (
	tokyoPrefectureID      int64 = 13
	shinjukuMunicipalityID int64 = 13104
	defaultStoreID         int64 = 1
)

func (a *Application) checkRegion() {
	var pref domain.Prefecture
	err := a.gormDB.Where("id = ?", tokyoPrefectureID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a.gormDB.Create(&domain.Prefecture{ID: tokyoPrefectureID, Name: "東京都"})
		zap.L().Info("initialized default prefecture", zap.Int64("id", tokyoPrefectureID))
	}

	var muni domain.Municipality
	err = a.gormDB.Where("id = ?", shinjukuMunicipalityID).First(&muni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a.gormDB.Create(&domain.Municipality{
			ID:           shinjukuMunicipalityID,
			PrefectureID: tokyoPrefectureID,
			Name:         "新宿区",
		})
		zap.L().Info("initialized default municipality", zap.Int64("id", shinjukuMunicipalityID))
	}
}

func (a *Application) checkDefaultStore() {
	const defaultPassword = "password123"

	var store domain.Store
	err := a.gormDB.Where("id = ?", defaultStoreID).First(&store).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default store password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.Store{
			ID:             defaultStoreID,
			MunicipalityID: shinjukuMunicipalityID,
			Name:           "新宿本店",
			AddressDetail:  "西新宿1-1-1",
			PasswordHash:   hash,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default store", zap.Error(err))
			return
		}
		zap.L().Info("initialized default store", zap.Int64("store_id", defaultStoreID))
	case err != nil:
		zap.L().Error("failed to query default store", zap.Error(err))
	}
}

// checkCatalog seeds the demo menu and the default store's opening stock.
// Existing rows are never touched.
func (a *Application) checkCatalog() {
	var count int64
	a.gormDB.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []domain.Category{
		{ID: 1, Name: "定食"},
		{ID: 2, Name: "サイドメニュー"},
	}
	products := []domain.Product{
		{ID: 1, CategoryID: 1, Name: "ハンバーグ定食", StandardPrice: 850, ImageURL: "/images/hamburg.jpg"},
		{ID: 2, CategoryID: 1, Name: "からあげ定食", StandardPrice: 750, ImageURL: "/images/karaage.jpg"},
		{ID: 3, CategoryID: 2, Name: "フライドポテト", StandardPrice: 300, ImageURL: "/images/potato.jpg"},
		{ID: 4, CategoryID: 1, Name: "とんかつ定食", StandardPrice: 900, ImageURL: "/images/tonkatsu.jpg"},
	}
	inventories := []domain.StoreInventory{
		{StoreID: defaultStoreID, ProductID: 1, CurrentStock: 50, IsOnSale: true},
		{StoreID: defaultStoreID, ProductID: 2, CurrentStock: 30, IsOnSale: true},
		{StoreID: defaultStoreID, ProductID: 3, CurrentStock: 100, IsOnSale: true},
		{StoreID: defaultStoreID, ProductID: 4, CurrentStock: 40, IsOnSale: true},
	}

	now := time.Now()
	for i := range categories {
		categories[i].CreatedAt = now
		categories[i].UpdatedAt = now
	}
	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	for i := range inventories {
		inventories[i].CreatedAt = now
		inventories[i].UpdatedAt = now
	}

	if err := a.gormDB.Create(&categories).Error; err != nil {
		zap.L().Error("failed to seed categories", zap.Error(err))
		return
	}
	if err := a.gormDB.Create(&products).Error; err != nil {
		zap.L().Error("failed to seed products", zap.Error(err))
		return
	}
	if err := a.gormDB.Create(&inventories).Error; err != nil {
		zap.L().Error("failed to seed inventories", zap.Error(err))
		return
	}
	zap.L().Info("initialized demo catalog",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)))
}

// configSchema describes one runtime setting row created on first boot.
type configSchema struct {
	Key         string
	Default     string
	Description string
}

var configSchemas = []configSchema{
	{Key: "ordering.MaxItemsPerOrder", Default: "20", Description: "Maximum line items accepted per order"},
	{Key: "ordering.MaxQuantityPerLine", Default: "99", Description: "Maximum quantity accepted per order line"},
	{Key: "sales.TrendDays", Default: "30", Description: "Default window for sales trend queries"},
	{Key: "sales.ReconcileCron", Default: "@daily", Description: "Schedule for the daily sales reconciliation job"},
	{Key: "kiosk.MenuCacheSeconds", Default: "0", Description: "Menu response cache hint in seconds, 0 disables"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range configSchemas {
		category, name, ok := splitConfigKey(schema.Key)
		if !ok {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}
