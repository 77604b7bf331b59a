package domain

import "time"

// Stock movement types
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
	MovementReturn     = "RETURN"
)

// InvSaleRecord is one completed sale of a single product. Rows are
// written once by the stock engine and never updated or deleted; the
// unit price is a snapshot taken at commit time.
type InvSaleRecord struct {
	ID            int64     `json:"id,string"`
	SaleNumber    string    `gorm:"uniqueIndex;size:64" json:"sale_number"`
	ProductID     int64     `gorm:"index" json:"product_id,string"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	TotalAmount   float64   `json:"total_amount"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	PaymentMethod string    `gorm:"size:32" json:"payment_method"`
	Notes         string    `json:"notes"`
	SoldAt        time.Time `gorm:"index" json:"sold_at"`
}

// TableName Specify table name
func (InvSaleRecord) TableName() string {
	return "inv_sale_record"
}

// InvStockMovement records every change to a product's stock level,
// positive for IN/RETURN and negative for OUT.
type InvStockMovement struct {
	ID         int64     `json:"id,string"`
	ProductID  int64     `gorm:"index" json:"product_id,string"`
	Type       string    `gorm:"size:16;index" json:"type"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	Reference  string    `gorm:"size:64" json:"reference"`
	Notes      string    `json:"notes"`
	CreatedBy  string    `gorm:"size:64" json:"created_by"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName Specify table name
func (InvStockMovement) TableName() string {
	return "inv_stock_movement"
}
