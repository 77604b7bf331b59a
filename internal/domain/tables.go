package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Inventory
	&InvCategory{},
	&InvSupplier{},
	&InvProduct{},
	&InvSaleRecord{},
	&InvStockMovement{},
	&InvAlert{},
}
