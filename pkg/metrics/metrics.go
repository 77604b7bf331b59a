package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Metric names recorded by the application.
const (
	MetricSaleCount    = "invtrack_sale_count"
	MetricSaleAmount   = "invtrack_sale_amount"
	MetricStockOut     = "invtrack_stock_out"
	MetricSystemCpuuse = "invtrack_system_cpuuse"
	MetricSystemMemuse = "invtrack_system_memuse"
)

var (
	storage tstorage.Storage
	mu      sync.Mutex
)

// InitMetrics opens the local time-series store under the workdir.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(time.Hour*24*90),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// Record inserts a single datapoint for metric at the current time.
func Record(metric string, value float64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Select returns datapoints for metric within [start, end].
func Select(metric string, start, end int64) []*tstorage.DataPoint {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return nil
	}
	points, err := s.Select(metric, nil, start, end)
	if err != nil {
		return nil
	}
	return points
}

// Close flushes and closes the time-series store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
