package domain

import "time"

// InvCategory groups products for catalog browsing and reporting.
type InvCategory struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	Description string    `json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (InvCategory) TableName() string {
	return "inv_category"
}

// InvSupplier is an upstream vendor a product is sourced from.
type InvSupplier struct {
	ID            int64     `json:"id,string" form:"id"`
	Name          string    `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	ContactPerson string    `json:"contact_person" form:"contact_person"`
	Email         string    `json:"email" form:"email"`
	Phone         string    `json:"phone" form:"phone"`
	Address       string    `json:"address" form:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (InvSupplier) TableName() string {
	return "inv_supplier"
}

// InvProduct is one stock-keeping unit. CurrentStock is mutated only by
// the stock engine inside its transaction; descriptive fields are managed
// by the catalog handlers. Products referenced by the sales ledger are
// soft-deactivated (IsActive=false), never removed.
type InvProduct struct {
	ID                int64     `json:"id,string" form:"id"`
	Name              string    `gorm:"index;size:200" json:"name" form:"name"`
	Sku               string    `gorm:"uniqueIndex;size:64" json:"sku" form:"sku"`
	CategoryID        int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	SupplierID        int64     `gorm:"index" json:"supplier_id,string" form:"supplier_id"`
	Description       string    `json:"description" form:"description"`
	UnitPrice         float64   `json:"unit_price" form:"unit_price"`
	CostPrice         float64   `json:"cost_price" form:"cost_price"`
	CurrentStock      int       `json:"current_stock" form:"current_stock"`
	CriticalThreshold int       `json:"critical_threshold" form:"critical_threshold"`
	ReorderThreshold  int       `json:"reorder_threshold" form:"reorder_threshold"`
	MaximumStock      int       `json:"maximum_stock" form:"maximum_stock"`
	Location          string    `gorm:"size:32" json:"location" form:"location"`
	Barcode           string    `gorm:"size:64" json:"barcode" form:"barcode"`
	IsActive          bool      `gorm:"index" json:"is_active" form:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName Specify table name
func (InvProduct) TableName() string {
	return "inv_product"
}
