package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// SweepFunc purges expired trash and reports how many rows went away.
type SweepFunc func(ctx context.Context) (purged int64, err error)

// retentionSweeps counts sweep attempts by outcome ("ok", "error").
var retentionSweeps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "retention_sweeps_total",
		Help: "Retention sweeps run ahead of request handling, by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(retentionSweeps)
}

// RetentionSweep runs sweep before the rest of the chain so expired trash is
// gone before any handler reads it. A failed sweep is logged and the request
// proceeds.
//
// minInterval throttles sweeps process-wide; zero sweeps on every request.
func RetentionSweep(sweep SweepFunc, minInterval time.Duration) gin.HandlerFunc {
	var (
		mu   sync.Mutex
		last time.Time
	)
	due := func(now time.Time) bool {
		if minInterval <= 0 {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		if !last.IsZero() && now.Sub(last) < minInterval {
			return false
		}
		last = now
		return true
	}

	return func(c *gin.Context) {
		if sweep == nil || !due(time.Now()) {
			c.Next()
			return
		}
		n, err := sweep(c.Request.Context())
		if err != nil {
			retentionSweeps.WithLabelValues("error").Inc()
			lg := LoggerFrom(c)
			lg.Warn().Err(err).Msg("retention sweep failed")
		} else {
			retentionSweeps.WithLabelValues("ok").Inc()
			if n > 0 {
				lg := LoggerFrom(c)
				lg.Info().Int64("purged", n).Msg("retention sweep")
			}
		}
		c.Next()
	}
}
