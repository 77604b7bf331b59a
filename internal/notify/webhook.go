package notify

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"

	"github.com/invtrack/invtrack/internal/stock"
)

func sendWebhook(cfg notifySettings, evt stock.LevelEvent) error {
	if cfg.WebhookURL == "" {
		return fmt.Errorf("webhook url not configured")
	}

	var code int
	err := gout.POST(cfg.WebhookURL).
		SetTimeout(10 * time.Second).
		SetJSON(gout.H{
			"product_id":   evt.ProductID,
			"name":         evt.Name,
			"sku":          evt.Sku,
			"new_quantity": evt.NewQuantity,
			"state":        string(evt.State),
			"sent_at":      time.Now().Format(time.RFC3339),
		}).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code >= 300 {
		return fmt.Errorf("webhook responded with status %d", code)
	}
	return nil
}
