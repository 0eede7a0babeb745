package domain

import "time"

// CustomerAttribute is an optional demographic tag captured at the kiosk
// before order submission. Referenced by Order, never mutated afterwards.
type CustomerAttribute struct {
	ID        int64     `json:"id,string"`
	StoreID   int64     `gorm:"index" json:"store_id" form:"store_id"`
	AgeGroup  string    `gorm:"size:16" json:"age_group" form:"age_group"`
	Gender    string    `gorm:"size:16" json:"gender" form:"gender"`
	ScannedAt time.Time `json:"scanned_at"`
}

func (CustomerAttribute) TableName() string {
	return "customer_attributes"
}

// Order is a committed purchase header. It exists only if the whole
// placement transaction committed; it is never updated afterwards.
type Order struct {
	ID            int64     `json:"id,string"`
	StoreID       int64     `gorm:"index" json:"store_id"`
	AttributeID   int64     `gorm:"index" json:"attribute_id"`
	OrderedAt     time.Time `gorm:"index" json:"ordered_at"`
	TotalAmount   int       `json:"total_amount"`
	PaymentMethod string    `gorm:"size:32" json:"payment_method"`
	TakeOutType   string    `gorm:"size:32" json:"take_out_type"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderDetail is one line item of an Order, created in the same
// transaction as its parent. UnitPrice is the price at time of sale.
type OrderDetail struct {
	ID        int64 `json:"id,string"`
	OrderID   int64 `gorm:"index" json:"order_id,string"`
	ProductID int64 `gorm:"index" json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int   `json:"unit_price"`
}

func (OrderDetail) TableName() string {
	return "order_details"
}
