package app

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/notify"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	// stock alert sweep keeps the alert feed correct even for stock
	// changes made directly in the database
	interval := a.GetSettingsInt64Value("stock", "sweep_interval_min")
	if interval <= 0 {
		interval = 30
	}
	_, err := a.sched.AddFunc("@every "+time.Duration(interval*int64(time.Minute)).String(), a.runAlertSweep)
	if err != nil {
		zap.L().Error("failed to schedule alert sweep", zap.Error(err))
	}

	_, err = a.sched.AddFunc("@every 60s", a.collectSystemMetrics)
	if err != nil {
		zap.L().Error("failed to schedule metrics collection", zap.Error(err))
	}
}

// runAlertSweep re-evaluates the alert feed for every active product,
// fanning the per-product work out over a bounded goroutine pool.
func (a *Application) runAlertSweep() {
	var products []domain.InvProduct
	if err := a.gormDB.Where("is_active = ?", true).Find(&products).Error; err != nil {
		zap.L().Error("alert sweep query failed", zap.Error(err))
		return
	}

	workers := int(a.GetSettingsInt64Value("stock", "sweep_workers"))
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		zap.L().Error("alert sweep pool failed", zap.Error(err))
		return
	}
	defer pool.Release()

	dispatcher := notify.NewDispatcher(a.gormDB, a.configManager)
	var wg sync.WaitGroup
	for i := range products {
		p := products[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			state := stock.ComputeAlertState(&p)
			dispatcher.RefreshAlerts(stock.LevelEvent{
				ProductID:         p.ID,
				Name:              p.Name,
				Sku:               p.Sku,
				NewQuantity:       p.CurrentStock,
				CriticalThreshold: p.CriticalThreshold,
				ReorderThreshold:  p.ReorderThreshold,
				MaximumStock:      p.MaximumStock,
				State:             state,
			})
		}); err != nil {
			wg.Done()
			zap.L().Error("alert sweep submit failed", zap.Error(err))
		}
	}
	wg.Wait()

	zap.L().Info("stock alert sweep finished", zap.Int("products", len(products)))
}

func (a *Application) collectSystemMetrics() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		metrics.Record(metrics.MetricSystemCpuuse, percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.Record(metrics.MetricSystemMemuse, vm.UsedPercent)
	}
}
