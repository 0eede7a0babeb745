package domain

import "time"

// Store is a physical vending location. Master data, immutable at order time.
type Store struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MunicipalityID int64     `gorm:"index" json:"municipality_id" form:"municipality_id"`
	Name           string    `gorm:"index" json:"name" form:"name"`
	AddressDetail  string    `json:"address_detail" form:"address_detail"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// StoreInventory is the per-store per-product stock row. current_stock must
// never go below zero; every mutation goes through the ordering ledger so
// the row lock discipline is uniform.
type StoreInventory struct {
	StoreID      int64     `gorm:"primaryKey;autoIncrement:false" json:"store_id" form:"store_id"`
	ProductID    int64     `gorm:"primaryKey;autoIncrement:false" json:"product_id" form:"product_id"`
	CurrentStock int       `gorm:"not null;default:0" json:"current_stock" form:"current_stock"`
	IsOnSale     bool      `gorm:"not null;default:true" json:"is_on_sale" form:"is_on_sale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (StoreInventory) TableName() string {
	return "store_inventories"
}
