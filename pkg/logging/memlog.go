package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// MemoryUsageLoop logs current total memory consumption every interval until exit is closed.
// A non-positive interval disables it.
func MemoryUsageLoop(interval time.Duration, exit <-chan struct{}, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	log = log.With().Int(Service, MemLogService).Logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info().Msg(ServiceStarted)
	var stats runtime.MemStats
	for {
		select {
		case <-exit:
			log.Info().Msg(ServiceStopped)
			return
		case <-ticker.C:
			runtime.ReadMemStats(&stats)
			log.Info().Uint64(Memory, stats.Sys).Uint64(Size, stats.HeapAlloc).Msg(MemoryUsage)
		}
	}
}
