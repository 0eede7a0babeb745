package domain

import "time"

// Category groups products on the kiosk menu.
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Product is a sellable catalog item. StandardPrice is in minor-less yen;
// the price actually charged is snapshotted onto OrderDetail at sale time.
type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    int64     `gorm:"index" json:"category_id" form:"category_id"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	StandardPrice int       `gorm:"not null" json:"standard_price" form:"standard_price"`
	ImageURL      string    `gorm:"size:1024" json:"image_url" form:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
