package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/pkg/common"
)

// SettingsDecoder decodes a settings category into a typed struct.
type SettingsDecoder interface {
	DecodeSettings(category string, out interface{}) error
}

// Bus is the subscribe surface of the event bus.
type Bus interface {
	SubscribeAsync(topic string, fn interface{}, transactional bool) error
}

// Dispatcher consumes stock level events: it maintains the persisted
// alert feed and forwards critical transitions to the configured
// notifiers.
type Dispatcher struct {
	db       *gorm.DB
	settings SettingsDecoder
}

// NewDispatcher creates an alert dispatcher.
func NewDispatcher(db *gorm.DB, settings SettingsDecoder) *Dispatcher {
	return &Dispatcher{db: db, settings: settings}
}

// Subscribe attaches the dispatcher to the stock level topic.
func (d *Dispatcher) Subscribe(bus Bus) error {
	return bus.SubscribeAsync(stock.TopicStockLevel, d.HandleLevelEvent, false)
}

// HandleLevelEvent refreshes the unread alert rows for the product and
// dispatches notifications when the stock level is critical or exhausted.
func (d *Dispatcher) HandleLevelEvent(evt stock.LevelEvent) {
	if err := d.writeAlerts(evt); err != nil {
		zap.L().Error("failed to write stock alerts",
			zap.Int64("product_id", evt.ProductID), zap.Error(err))
	}

	if evt.State == stock.AlertCritical || evt.State == stock.AlertOutOfStock {
		d.dispatch(evt)
	}
}

// RefreshAlerts rewrites the alert feed for the product without sending
// notifications. Used by the periodic sweep so recurring scans do not
// re-notify about an unchanged stock level.
func (d *Dispatcher) RefreshAlerts(evt stock.LevelEvent) {
	if err := d.writeAlerts(evt); err != nil {
		zap.L().Error("failed to refresh stock alerts",
			zap.Int64("product_id", evt.ProductID), zap.Error(err))
	}
}

// writeAlerts mirrors the alert feed maintenance: unread alerts for the
// product are replaced by at most one row describing the current band.
func (d *Dispatcher) writeAlerts(evt stock.LevelEvent) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ? AND is_read = ?", evt.ProductID, false).
			Delete(&domain.InvAlert{}).Error; err != nil {
			return err
		}

		alertType, message := alertFor(evt)
		if alertType == "" {
			return nil
		}
		return tx.Create(&domain.InvAlert{
			ID:        common.UUIDint64(),
			ProductID: evt.ProductID,
			Type:      alertType,
			Message:   message,
			IsRead:    false,
			CreatedAt: time.Now(),
		}).Error
	})
}

func alertFor(evt stock.LevelEvent) (alertType, message string) {
	switch {
	case evt.State == stock.AlertOutOfStock:
		return domain.AlertOutOfStock,
			fmt.Sprintf("Product '%s' is OUT OF STOCK!", evt.Name)
	case evt.State == stock.AlertCritical:
		return domain.AlertLowStock,
			fmt.Sprintf("Product '%s' is critically low (Stock: %d, Min: %d)",
				evt.Name, evt.NewQuantity, evt.CriticalThreshold)
	case evt.State == stock.AlertLow:
		return domain.AlertLowStock,
			fmt.Sprintf("Product '%s' needs reordering (Stock: %d, Reorder at: %d)",
				evt.Name, evt.NewQuantity, evt.ReorderThreshold)
	case evt.MaximumStock > 0 && evt.NewQuantity > evt.MaximumStock:
		return domain.AlertOverstock,
			fmt.Sprintf("Product '%s' is overstocked (Stock: %d, Max: %d)",
				evt.Name, evt.NewQuantity, evt.MaximumStock)
	}
	return "", ""
}

func (d *Dispatcher) dispatch(evt stock.LevelEvent) {
	var cfg notifySettings
	if err := d.settings.DecodeSettings("notify", &cfg); err != nil {
		zap.L().Warn("failed to load notify settings", zap.Error(err))
		return
	}

	if cfg.MailEnabled {
		if err := sendMail(cfg, evt); err != nil {
			zap.L().Error("stock alert mail failed", zap.Error(err))
		}
	}
	if cfg.WebhookEnabled {
		if err := sendWebhook(cfg, evt); err != nil {
			zap.L().Error("stock alert webhook failed", zap.Error(err))
		}
	}
}

// notifySettings is decoded from the "notify" settings category.
type notifySettings struct {
	MailEnabled    bool   `mapstructure:"mail_enabled"`
	SmtpHost       string `mapstructure:"smtp_host"`
	SmtpPort       int    `mapstructure:"smtp_port"`
	SmtpUser       string `mapstructure:"smtp_user"`
	SmtpPasswd     string `mapstructure:"smtp_passwd"`
	MailFrom       string `mapstructure:"mail_from"`
	MailTo         string `mapstructure:"mail_to"`
	WebhookEnabled bool   `mapstructure:"webhook_enabled"`
	WebhookURL     string `mapstructure:"webhook_url"`
}
