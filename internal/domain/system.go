package domain

import "time"

// SysConfig holds runtime-tunable settings as category/name/value rows.
type SysConfig struct {
	ID        int64     `json:"id,string" form:"id"`
	Sort      int       `json:"sort" form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SysConfig) TableName() string {
	return "sys_config"
}

// DailySales is a per-store per-day sales rollup. It is advanced
// incrementally by the order-committed event subscriber and reconciled
// from the orders table by the nightly job.
type DailySales struct {
	ID         int64     `json:"id,string"`
	StoreID    int64     `gorm:"index:idx_daily_sales_store_day,unique" json:"store_id"`
	Day        string    `gorm:"size:10;index:idx_daily_sales_store_day,unique" json:"day"`
	TotalSales int64     `json:"total_sales"`
	OrderCount int64     `json:"order_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DailySales) TableName() string {
	return "daily_sales"
}
