package adminapi

import (
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/invtrack/invtrack/internal/webserver"
)

var startTime = time.Now()

func registerStatusRoutes() {
	webserver.ApiGET("/status", systemStatus)
}

func systemStatus(c echo.Context) error {
	view := map[string]interface{}{
		"pid":        os.Getpid(),
		"uptime_sec": int64(time.Since(startTime).Seconds()),
		"goroutines": runtime.NumGoroutine(),
		"go_version": runtime.Version(),
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		view["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		view["mem_used_percent"] = vm.UsedPercent
		view["mem_total"] = vm.Total
	}
	return ok(c, view)
}
