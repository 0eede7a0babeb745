package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&DailySales{},
	// Region master
	&Prefecture{},
	&Municipality{},
	// Store and catalog master
	&Store{},
	&Category{},
	&Product{},
	// Inventory ledger
	&StoreInventory{},
	// Ordering
	&CustomerAttribute{},
	&Order{},
	&OrderDetail{},
}
