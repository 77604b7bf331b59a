package app

import (
	_ "embed"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/pkg/common"
)

//go:embed settings_schema.json
var configSchemasData []byte

// ConfigSchemasJSON is the embedded settings defaults document.
type ConfigSchemasJSON struct {
	Schemas []struct {
		Key    string `json:"key"`
		Value  string `json:"value"`
		Remark string `json:"remark"`
	} `json:"schemas"`
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "invtrack"

	hashedPassword := common.HashPasswordWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)
	if !resetPassword && !resetStatus {
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("statusEnabled", resetStatus))
}

// checkSettings seeds missing settings rows from the embedded schema.
func (a *Application) checkSettings() {
	var schemasData ConfigSchemasJSON
	if err := json.Unmarshal(configSchemasData, &schemasData); err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return
	}

	for sortid, schema := range schemasData.Schemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}
		category, name := parts[0], parts[1]

		var existing domain.SysConfig
		err := a.gormDB.Where("type = ? AND name = ?", category, name).First(&existing).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err := a.gormDB.Create(&domain.SysConfig{
			ID:        common.UUIDint64(),
			Sort:      sortid,
			Type:      category,
			Name:      name,
			Value:     schema.Value,
			Remark:    schema.Remark,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to seed setting", zap.String("key", schema.Key), zap.Error(err))
		}
	}
}

// checkSampleData seeds demonstration catalog data when the database is
// empty so a fresh install has something to show.
func (a *Application) checkSampleData() {
	var count int64
	if err := a.gormDB.Model(&domain.InvCategory{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	type sampleProduct struct {
		name, sku, description, location, barcode string
		category, supplier                        int
		unitPrice, costPrice                      float64
		stock, critical, reorder, maximum         int
	}

	categories := []domain.InvCategory{
		{Name: "Electronics", Description: "Electronic devices and components"},
		{Name: "Clothing", Description: "Apparel and accessories"},
		{Name: "Books", Description: "Books and educational materials"},
		{Name: "Home & Garden", Description: "Home improvement and gardening supplies"},
		{Name: "Sports", Description: "Sports equipment and accessories"},
	}
	suppliers := []domain.InvSupplier{
		{Name: "TechCorp Ltd", ContactPerson: "John Smith", Email: "john@techcorp.com", Phone: "+1-555-0101", Address: "123 Tech Street, Silicon Valley"},
		{Name: "Fashion Hub", ContactPerson: "Sarah Johnson", Email: "sarah@fashionhub.com", Phone: "+1-555-0102", Address: "456 Fashion Ave, New York"},
		{Name: "BookWorld", ContactPerson: "Mike Wilson", Email: "mike@bookworld.com", Phone: "+1-555-0103", Address: "789 Library Lane, Boston"},
		{Name: "GreenThumb Supplies", ContactPerson: "Lisa Brown", Email: "lisa@greenthumb.com", Phone: "+1-555-0104", Address: "321 Garden Road, Portland"},
		{Name: "SportZone", ContactPerson: "David Lee", Email: "david@sportzone.com", Phone: "+1-555-0105", Address: "654 Athletic Blvd, Denver"},
	}
	products := []sampleProduct{
		{"Wireless Headphones", "WH-001", "High-quality wireless headphones", "A1-B2", "123456789012", 0, 0, 99.99, 45.00, 50, 10, 15, 200},
		{"Bluetooth Speaker", "BS-002", "Portable Bluetooth speaker", "A1-B3", "123456789013", 0, 0, 79.99, 35.00, 30, 5, 10, 150},
		{"Men's T-Shirt", "MT-003", "Cotton t-shirt for men", "B2-C1", "123456789014", 1, 1, 24.99, 12.00, 100, 20, 30, 500},
		{"Women's Jeans", "WJ-004", "Denim jeans for women", "B2-C2", "123456789015", 1, 1, 59.99, 28.00, 75, 15, 25, 300},
		{"Go Programming Book", "PB-005", "Learn Go programming", "C3-D1", "123456789016", 2, 2, 39.99, 20.00, 25, 5, 10, 100},
		{"Garden Hose", "GH-006", "50ft garden hose", "D4-E1", "123456789017", 3, 3, 34.99, 18.00, 40, 8, 12, 120},
		{"Tennis Racket", "TR-007", "Professional tennis racket", "E5-F1", "123456789018", 4, 4, 129.99, 65.00, 20, 5, 8, 80},
		{"Yoga Mat", "YM-008", "Non-slip yoga mat", "E5-F2", "123456789019", 4, 4, 29.99, 15.00, 60, 10, 15, 200},
	}

	now := time.Now()
	for i := range categories {
		categories[i].ID = common.UUIDint64()
		categories[i].CreatedAt = now
		categories[i].UpdatedAt = now
	}
	for i := range suppliers {
		suppliers[i].ID = common.UUIDint64()
		suppliers[i].CreatedAt = now
		suppliers[i].UpdatedAt = now
	}

	err := a.gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
		if err := tx.Create(&suppliers).Error; err != nil {
			return err
		}
		for _, sp := range products {
			p := domain.InvProduct{
				ID:                common.UUIDint64(),
				Name:              sp.name,
				Sku:               sp.sku,
				CategoryID:        categories[sp.category].ID,
				SupplierID:        suppliers[sp.supplier].ID,
				Description:       sp.description,
				UnitPrice:         sp.unitPrice,
				CostPrice:         sp.costPrice,
				CurrentStock:      sp.stock,
				CriticalThreshold: sp.critical,
				ReorderThreshold:  sp.reorder,
				MaximumStock:      sp.maximum,
				Location:          sp.location,
				Barcode:           sp.barcode,
				IsActive:          true,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to seed sample data", zap.Error(err))
		return
	}
	zap.L().Info("seeded sample catalog data",
		zap.Int("categories", len(categories)),
		zap.Int("suppliers", len(suppliers)),
		zap.Int("products", len(products)))
}
