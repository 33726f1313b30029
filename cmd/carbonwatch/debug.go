//go:build debug
// +build debug

package main

import (
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/store"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

// startDebugLogger starts debug logger and pprof server.
func startDebugLogger(s *store.Store) {
	uptime := time.Now()

	report := func(latency time.Duration, message string, extra map[string]interface{}) {
		s.Report(api.Record{
			Time:    time.Now(),
			Status:  api.StatusHealthy,
			Latency: latency,
			Target:  "carbonwatch:debug",
			Message: message,
			Extra:   extra,
		})
	}

	go func() {
		report(time.Since(uptime), "start in debug mode", map[string]interface{}{
			"arch":      runtime.GOARCH,
			"os":        runtime.GOOS,
			"goversion": runtime.Version(),
		})

		for range time.Tick(time.Minute) {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			report(0, "process status", map[string]interface{}{
				"num_goroutine":  runtime.NumGoroutine(),
				"heap_alloc":     mem.HeapAlloc,
				"num_gc":         mem.NumGC,
				"uptime_seconds": time.Since(uptime).Seconds(),
			})
		}
	}()

	go func() {
		report(0, "start pprof server", map[string]interface{}{
			"url": "http://localhost:6060",
		})
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			report(0, "pprof server has stopped", map[string]interface{}{
				"reason": err.Error(),
			})
		}
	}()
}
