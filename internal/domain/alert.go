package domain

import "time"

// Alert types for the persisted notification feed
const (
	AlertLowStock   = "LOW_STOCK"
	AlertOutOfStock = "OUT_OF_STOCK"
	AlertOverstock  = "OVERSTOCK"
)

// InvAlert is a persisted stock notification shown on the dashboard.
// It is a notification feed only; the live severity of a product is the
// derived alert state computed from current stock, never read from here.
type InvAlert struct {
	ID        int64     `json:"id,string"`
	ProductID int64     `gorm:"index" json:"product_id,string"`
	Type      string    `gorm:"size:16" json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `gorm:"index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (InvAlert) TableName() string {
	return "inv_alert"
}
