package stock

import "github.com/invtrack/invtrack/internal/domain"

// AlertState is the derived severity of a product's stock level. It is
// computed on read and never persisted.
type AlertState string

const (
	AlertNormal     AlertState = "NORMAL"
	AlertLow        AlertState = "LOW"
	AlertCritical   AlertState = "CRITICAL"
	AlertOutOfStock AlertState = "OUT_OF_STOCK"
)

// Severity returns a comparable rank, higher is more severe.
func (s AlertState) Severity() int {
	switch s {
	case AlertOutOfStock:
		return 3
	case AlertCritical:
		return 2
	case AlertLow:
		return 1
	default:
		return 0
	}
}

// ComputeAlertState classifies a product's stock level. Ties break toward
// the more severe state: the critical threshold is checked before the
// reorder threshold.
func ComputeAlertState(p *domain.InvProduct) AlertState {
	return ComputeAlertStateFor(p.CurrentStock, p.CriticalThreshold, p.ReorderThreshold)
}

// ComputeAlertStateFor classifies a raw quantity against thresholds.
func ComputeAlertStateFor(quantity, critical, reorder int) AlertState {
	switch {
	case quantity == 0:
		return AlertOutOfStock
	case quantity <= critical:
		return AlertCritical
	case quantity <= reorder:
		return AlertLow
	default:
		return AlertNormal
	}
}
