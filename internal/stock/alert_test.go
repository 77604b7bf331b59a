package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invtrack/invtrack/internal/domain"
)

func TestComputeAlertStateFor(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		critical int
		reorder  int
		want     AlertState
	}{
		{"well above reorder", 10, 2, 5, AlertNormal},
		{"just above reorder", 6, 2, 5, AlertNormal},
		{"at reorder", 5, 2, 5, AlertLow},
		{"between critical and reorder", 3, 2, 5, AlertLow},
		{"at critical", 2, 2, 5, AlertCritical},
		{"below critical", 1, 2, 5, AlertCritical},
		{"zero", 0, 2, 5, AlertOutOfStock},
		{"zero thresholds", 1, 0, 0, AlertNormal},
		{"zero with zero thresholds", 0, 0, 0, AlertOutOfStock},
		// critical wins when both thresholds coincide
		{"equal thresholds at boundary", 4, 4, 4, AlertCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeAlertStateFor(tc.quantity, tc.critical, tc.reorder))
		})
	}
}

func TestComputeAlertStateFromProduct(t *testing.T) {
	p := &domain.InvProduct{CurrentStock: 7, CriticalThreshold: 3, ReorderThreshold: 8}
	assert.Equal(t, AlertLow, ComputeAlertState(p))
}

// Severity must strictly increase as stock falls through the bands, so
// callers can compare states instead of enumerating them.
func TestSeverityOrdering(t *testing.T) {
	assert.Greater(t, AlertOutOfStock.Severity(), AlertCritical.Severity())
	assert.Greater(t, AlertCritical.Severity(), AlertLow.Severity())
	assert.Greater(t, AlertLow.Severity(), AlertNormal.Severity())

	prev := AlertNormal
	for qty := 10; qty >= 0; qty-- {
		state := ComputeAlertStateFor(qty, 2, 5)
		assert.GreaterOrEqual(t, state.Severity(), prev.Severity(), "quantity %d", qty)
		prev = state
	}
}
