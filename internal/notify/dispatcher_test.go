package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
)

type noSettings struct{}

func (noSettings) DecodeSettings(string, interface{}) error {
	return fmt.Errorf("no settings in test")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func unreadAlerts(t *testing.T, db *gorm.DB, productID int64) []domain.InvAlert {
	t.Helper()
	var alerts []domain.InvAlert
	require.NoError(t, db.Where("product_id = ? AND is_read = ?", productID, false).
		Find(&alerts).Error)
	return alerts
}

func TestRefreshAlertsReplacesUnread(t *testing.T) {
	db := newTestDB(t)
	d := NewDispatcher(db, noSettings{})

	evt := stock.LevelEvent{
		ProductID: 201, Name: "Widget",
		NewQuantity: 1, CriticalThreshold: 2, ReorderThreshold: 5,
		State: stock.AlertCritical,
	}
	d.RefreshAlerts(evt)

	alerts := unreadAlerts(t, db, 201)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertLowStock, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "critically low")

	// a newer event supersedes the unread row instead of stacking
	evt.NewQuantity = 0
	evt.State = stock.AlertOutOfStock
	d.RefreshAlerts(evt)

	alerts = unreadAlerts(t, db, 201)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertOutOfStock, alerts[0].Type)
}

func TestRefreshAlertsClearsOnRecovery(t *testing.T) {
	db := newTestDB(t)
	d := NewDispatcher(db, noSettings{})

	evt := stock.LevelEvent{
		ProductID: 202, Name: "Gadget",
		NewQuantity: 0, State: stock.AlertOutOfStock,
	}
	d.RefreshAlerts(evt)
	require.Len(t, unreadAlerts(t, db, 202), 1)

	evt.NewQuantity = 20
	evt.State = stock.AlertNormal
	d.RefreshAlerts(evt)
	assert.Empty(t, unreadAlerts(t, db, 202))
}

func TestRefreshAlertsKeepsReadRows(t *testing.T) {
	db := newTestDB(t)
	d := NewDispatcher(db, noSettings{})

	require.NoError(t, db.Create(&domain.InvAlert{
		ID: 1, ProductID: 203, Type: domain.AlertLowStock,
		Message: "old alert", IsRead: true,
	}).Error)

	d.RefreshAlerts(stock.LevelEvent{
		ProductID: 203, Name: "Kept", NewQuantity: 10, State: stock.AlertNormal,
	})

	var count int64
	require.NoError(t, db.Model(&domain.InvAlert{}).
		Where("product_id = ?", 203).Count(&count).Error)
	assert.Equal(t, int64(1), count, "read history must survive a refresh")
}

func TestAlertFor(t *testing.T) {
	cases := []struct {
		name     string
		evt      stock.LevelEvent
		wantType string
		contains string
	}{
		{
			"out of stock",
			stock.LevelEvent{Name: "A", State: stock.AlertOutOfStock},
			domain.AlertOutOfStock, "OUT OF STOCK",
		},
		{
			"critical",
			stock.LevelEvent{Name: "B", NewQuantity: 1, CriticalThreshold: 2, State: stock.AlertCritical},
			domain.AlertLowStock, "critically low",
		},
		{
			"reorder",
			stock.LevelEvent{Name: "C", NewQuantity: 4, ReorderThreshold: 5, State: stock.AlertLow},
			domain.AlertLowStock, "needs reordering",
		},
		{
			"overstock",
			stock.LevelEvent{Name: "D", NewQuantity: 120, MaximumStock: 100, State: stock.AlertNormal},
			domain.AlertOverstock, "overstocked",
		},
		{
			"normal",
			stock.LevelEvent{Name: "E", NewQuantity: 10, MaximumStock: 100, State: stock.AlertNormal},
			"", "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alertType, message := alertFor(tc.evt)
			assert.Equal(t, tc.wantType, alertType)
			if tc.contains != "" {
				assert.Contains(t, message, tc.contains)
			} else {
				assert.Empty(t, message)
			}
		})
	}
}
