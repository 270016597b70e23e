package debug

// Debug runtime logger. Started only when config.Debug is true.
// Emits goroutine count, stack and heap usage, and process RSS where the
// platform exposes it, at a fixed interval.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// StartRuntimeLogger launches a ticker that logs runtime stats until ctx is done.
// It is lightweight; disable by running without the debug flag.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
				slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
				slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			}
			rss, err := processRSS()
			switch {
			case err == nil:
				attrs = append(attrs, slog.String("rss", humanize.Bytes(rss)))
			case !rssErrLogged:
				logger.Warn("runtime logger: rss unavailable", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("runtime", attrs...)
		}
	}()
}
