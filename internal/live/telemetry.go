package live

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"rune-and-ruin/graphics/animations"
)

// Telemetry tracks validation traffic with lock-free counters. Snapshot feeds
// the diagnostics endpoint and is safe to call from any goroutine.
type Telemetry struct {
	validations          atomic.Uint64
	failures             atomic.Uint64
	issuesFound          atomic.Uint64
	broadcasts           atomic.Uint64
	deliveries           atomic.Uint64
	lastValidationMillis atomic.Int64
	debug                bool
}

type TelemetrySnapshot struct {
	Validations          uint64 `json:"validations"`
	Failures             uint64 `json:"failures"`
	IssuesFound          uint64 `json:"issuesFound"`
	Broadcasts           uint64 `json:"broadcasts"`
	Deliveries           uint64 `json:"deliveries"`
	LastValidationMillis int64  `json:"lastValidationMillis"`
}

func NewTelemetry() *Telemetry {
	t := &Telemetry{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *Telemetry) RecordValidation(result animations.Result, duration time.Duration) {
	t.validations.Add(1)
	if !result.Success {
		t.failures.Add(1)
	}
	t.issuesFound.Add(uint64(len(result.Issues)))

	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.lastValidationMillis.Store(millis)

	if t.debug {
		fmt.Printf(
			"[telemetry] validation=%dms issues=%d total=%d failed=%d\n",
			millis,
			len(result.Issues),
			t.validations.Load(),
			t.failures.Load(),
		)
	}
}

func (t *Telemetry) RecordBroadcast(delivered int) {
	if delivered < 0 {
		delivered = 0
	}
	t.broadcasts.Add(1)
	t.deliveries.Add(uint64(delivered))
}

func (t *Telemetry) DebugEnabled() bool {
	return t.debug
}

func (t *Telemetry) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		Validations:          t.validations.Load(),
		Failures:             t.failures.Load(),
		IssuesFound:          t.issuesFound.Load(),
		Broadcasts:           t.broadcasts.Load(),
		Deliveries:           t.deliveries.Load(),
		LastValidationMillis: t.lastValidationMillis.Load(),
	}
}
