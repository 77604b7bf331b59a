package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/invtrack/invtrack/internal/stock"
)

func sendMail(cfg notifySettings, evt stock.LevelEvent) error {
	if cfg.SmtpHost == "" || cfg.MailTo == "" {
		return fmt.Errorf("smtp host or recipient not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.MailFrom)
	m.SetHeader("To", cfg.MailTo)
	m.SetHeader("Subject", fmt.Sprintf("[invtrack] %s: %s", evt.State, evt.Name))
	m.SetBody("text/plain", fmt.Sprintf(
		"Product: %s (SKU %s)\nStock level: %d\nCritical threshold: %d\nReorder threshold: %d\nState: %s\n",
		evt.Name, evt.Sku, evt.NewQuantity, evt.CriticalThreshold, evt.ReorderThreshold, evt.State))

	port := cfg.SmtpPort
	if port == 0 {
		port = 25
	}
	d := gomail.NewDialer(cfg.SmtpHost, port, cfg.SmtpUser, cfg.SmtpPasswd)
	return d.DialAndSend(m)
}
